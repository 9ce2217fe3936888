package content_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"saferoot/internal/audit"
	"saferoot/internal/content"
	"saferoot/internal/render"
	"saferoot/internal/store"
	storetesting "saferoot/internal/store/testing"
	"saferoot/pkg/pathguard"
)

// memorySink collects audit events for assertions.
type memorySink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *memorySink) Record(event audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *memorySink) all() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Event(nil), s.events...)
}

// fixture is a full content stack on throwaway directories and database.
type fixture struct {
	handler      http.Handler
	store        *store.Store
	uploadsDir   string
	templatesDir string
	trail        *audit.Trail
	sink         *memorySink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	uploadsDir := filepath.Join(base, "uploads")
	templatesDir := filepath.Join(base, "templates")
	for _, dir := range []string{uploadsDir, templatesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	sink := &memorySink{}
	trail := audit.New(audit.Config{Sinks: []audit.Sink{sink}})
	t.Cleanup(trail.Close)

	uploadsRoot, err := pathguard.New(pathguard.Config{
		Dir:      uploadsDir,
		Observer: trail.Observer("files"),
	})
	if err != nil {
		t.Fatalf("uploads root: %v", err)
	}
	templatesRoot, err := pathguard.New(pathguard.Config{
		Dir:      templatesDir,
		Observer: trail.Observer("templates"),
	})
	if err != nil {
		t.Fatalf("templates root: %v", err)
	}
	lookup, err := render.NewLookup(render.LookupConfig{
		Root:   templatesRoot,
		Policy: pathguard.TokenPolicy{Observer: trail.Observer("templates")},
	})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	st := storetesting.Open(t, filepath.Join(base, "content.db"))
	handler, err := content.NewHandler(content.Config{
		Store:            st,
		Uploads:          uploadsRoot,
		Templates:        lookup,
		StaticMaxAgeSecs: 60,
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return &fixture{
		handler:      handler,
		store:        st,
		uploadsDir:   uploadsDir,
		templatesDir: templatesDir,
		trail:        trail,
		sink:         sink,
	}
}

// get performs a GET against the handler and returns the recorder.
func (f *fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

// drain closes the trail and returns everything the sinks saw.
func (f *fixture) drain() []audit.Event {
	f.trail.Close()
	return f.sink.all()
}

// writeFile creates a file under dir with parent directories.
func writeFile(t *testing.T, dir, rel, data string) string {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return full
}

// seedPage inserts a page with components in order and returns the
// component ids in insertion order.
func seedPage(t *testing.T, st *store.Store, slug, title string, comps ...store.Component) []string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pageID, err := st.InsertPage(ctx, slug, title)
	if err != nil {
		t.Fatalf("insert page: %v", err)
	}
	ids := make([]string, 0, len(comps))
	for i, c := range comps {
		c.PageID = pageID
		c.Position = i + 1
		id, err := st.InsertComponent(ctx, c)
		if err != nil {
			t.Fatalf("insert component %d: %v", i, err)
		}
		ids = append(ids, id)
	}
	return ids
}

// TestHealth ensures the liveness endpoint answers.
func TestHealth(t *testing.T) {
	fx := newFixture(t)
	rec := fx.get(t, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("body = %q, want ok", rec.Body.String())
	}
}

// TestFileServed ensures a component file inside the uploads root is
// served with content type and cache headers.
func TestFileServed(t *testing.T) {
	fx := newFixture(t)
	writeFile(t, fx.uploadsDir, "2024/01/photo.png", "png-bytes")
	id := storetesting.SeedComponent(t, fx.store, store.Component{
		Type:     "image",
		Template: "default",
		FilePath: "2024/01/photo.png",
	})

	rec := fx.get(t, "/files/"+id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "png-bytes" {
		t.Fatalf("body = %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q, want image/png", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=60" {
		t.Fatalf("cache control = %q", cc)
	}
}

// TestFileServedSniffsContent ensures a stored file without a usable
// extension is still served with the content type its leading bytes show.
func TestFileServedSniffsContent(t *testing.T) {
	fx := newFixture(t)
	writeFile(t, fx.uploadsDir, "2024/01/4f2a", "\x89PNG\r\n\x1a\nrest")
	id := storetesting.SeedComponent(t, fx.store, store.Component{
		Type:     "image",
		Template: "default",
		FilePath: "2024/01/4f2a",
	})

	rec := fx.get(t, "/files/"+id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q, want image/png", ct)
	}
}

// TestFileMethodNotAllowed ensures non-GET requests are refused with Allow.
func TestFileMethodNotAllowed(t *testing.T) {
	fx := newFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/files/abc", nil)
	rec := httptest.NewRecorder()
	fx.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodGet {
		t.Fatalf("allow = %q, want GET", allow)
	}
}

// TestFileRejectionsLookAlike ensures a missing file, an out-of-bounds
// path, and a traversal path all present exactly like an unknown
// component, while the audit trail still records the distinct kinds.
func TestFileRejectionsLookAlike(t *testing.T) {
	fx := newFixture(t)
	outside := writeFile(t, t.TempDir(), "secret.txt", "secret")

	missingID := storetesting.SeedComponent(t, fx.store, store.Component{
		Type: "image", Template: "default", FilePath: "gone.png",
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pageID, err := fx.store.InsertPage(ctx, "lookalike", "Lookalike")
	if err != nil {
		t.Fatalf("insert page: %v", err)
	}
	outsideID, err := fx.store.InsertComponent(ctx, store.Component{
		PageID: pageID, Position: 1, Type: "image", Template: "default", FilePath: outside,
	})
	if err != nil {
		t.Fatalf("insert component: %v", err)
	}
	traversalID, err := fx.store.InsertComponent(ctx, store.Component{
		PageID: pageID, Position: 2, Type: "image", Template: "default",
		FilePath: "../../../etc/passwd",
	})
	if err != nil {
		t.Fatalf("insert component: %v", err)
	}

	baseline := fx.get(t, "/files/no-such-component")
	if baseline.Code != http.StatusNotFound {
		t.Fatalf("baseline status = %d, want 404", baseline.Code)
	}
	for _, id := range []string{missingID, outsideID, traversalID} {
		rec := fx.get(t, "/files/"+id)
		if rec.Code != baseline.Code {
			t.Fatalf("component %s: status = %d, want %d", id, rec.Code, baseline.Code)
		}
		if rec.Body.String() != baseline.Body.String() {
			t.Fatalf("component %s: body %q differs from baseline %q",
				id, rec.Body.String(), baseline.Body.String())
		}
	}

	kinds := map[pathguard.Kind]bool{}
	for _, event := range fx.drain() {
		if event.Source != "files" {
			t.Fatalf("unexpected source %q", event.Source)
		}
		kinds[event.Kind] = true
	}
	for _, want := range []pathguard.Kind{
		pathguard.KindNotFound,
		pathguard.KindOutOfBounds,
		pathguard.KindTraversalAttempt,
	} {
		if !kinds[want] {
			t.Fatalf("audit trail missing kind %v, got %v", want, kinds)
		}
	}
}

// TestFileUnknownIDAndEmptyPath ensures unknown ids and components with no
// file both answer 404.
func TestFileUnknownIDAndEmptyPath(t *testing.T) {
	fx := newFixture(t)
	textID := storetesting.SeedComponent(t, fx.store, store.Component{
		Type: "text", Template: "default", Text: "hello",
	})
	for _, target := range []string{"/files/does-not-exist", "/files/" + textID, "/files/"} {
		rec := fx.get(t, target)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d, want 404", target, rec.Code)
		}
	}
}

// TestPageRendersComponents ensures a page composes its components in
// position order with the page shell around them.
func TestPageRendersComponents(t *testing.T) {
	fx := newFixture(t)
	writeFile(t, fx.templatesDir, "components/text/default.html", "<p>{{.Text}}</p>")
	writeFile(t, fx.templatesDir, "components/image/default.html", `<img src="{{.FileURL}}">`)
	writeFile(t, fx.uploadsDir, "pic.jpg", "jpeg-bytes")

	ids := seedPage(t, fx.store, "home", "Home <1>",
		store.Component{Type: "text", Template: "default", Text: "hello"},
		store.Component{Type: "image", Template: "default", FilePath: "pic.jpg"},
	)

	rec := fx.get(t, "/pages/home")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<p>hello</p>") {
		t.Fatalf("body missing text fragment: %s", body)
	}
	if !strings.Contains(body, `<img src="/files/`+ids[1]+`">`) {
		t.Fatalf("body missing image fragment: %s", body)
	}
	if !strings.Contains(body, "Home &lt;1&gt;") {
		t.Fatalf("title not escaped: %s", body)
	}
	text := strings.Index(body, "<p>hello</p>")
	image := strings.Index(body, "<img")
	if text > image {
		t.Fatalf("components out of order: %s", body)
	}
}

// TestPageSkipsInvalidComponent ensures a component with a hostile
// template name is omitted while the rest of the page still renders, and
// the rejection lands on the audit trail.
func TestPageSkipsInvalidComponent(t *testing.T) {
	fx := newFixture(t)
	writeFile(t, fx.templatesDir, "components/text/default.html", "<p>{{.Text}}</p>")

	seedPage(t, fx.store, "mixed", "Mixed",
		store.Component{Type: "text", Template: "default", Text: "kept"},
		store.Component{Type: "text", Template: "../../secret", Text: "dropped"},
	)

	rec := fx.get(t, "/pages/mixed")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<p>kept</p>") {
		t.Fatalf("valid component missing: %s", body)
	}
	if strings.Contains(body, "dropped") {
		t.Fatalf("invalid component leaked into page: %s", body)
	}

	var sawTemplates bool
	for _, event := range fx.drain() {
		if event.Source == "templates" && event.RawInput == "../../secret" {
			sawTemplates = true
		}
	}
	if !sawTemplates {
		t.Fatalf("expected a templates rejection on the audit trail")
	}
}

// TestPageFallsBackToDefaultTemplate ensures a missing named template
// renders through the type's default.
func TestPageFallsBackToDefaultTemplate(t *testing.T) {
	fx := newFixture(t)
	writeFile(t, fx.templatesDir, "components/text/default.html", "<p>{{.Text}}</p>")

	seedPage(t, fx.store, "fallback", "Fallback",
		store.Component{Type: "text", Template: "fancy", Text: "via default"},
	)

	rec := fx.get(t, "/pages/fallback")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "<p>via default</p>") {
		t.Fatalf("fallback render missing: %s", rec.Body.String())
	}
}

// TestPageNotFound ensures an unknown slug answers 404.
func TestPageNotFound(t *testing.T) {
	fx := newFixture(t)
	rec := fx.get(t, "/pages/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not_found") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

// TestNewHandlerValidatesConfig ensures missing dependencies are refused.
func TestNewHandlerValidatesConfig(t *testing.T) {
	if _, err := content.NewHandler(content.Config{}); err == nil {
		t.Fatalf("expected an error for empty config")
	}
}
