// Package render locates and renders component templates. Template and
// component-type names are untrusted tokens; both pass the token policy
// before any path is formed, and the formed path still resolves through
// the trusted templates root.
package render

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path"

	"saferoot/pkg/pathguard"
)

// templateSuffix is the fixed extension appended to validated tokens.
const templateSuffix = ".html"

// defaultTemplate is the per-type fallback when a named template is missing.
const defaultTemplate = "default"

// LookupConfig wires the templates root and the token policy.
type LookupConfig struct {
	Root   *pathguard.Root
	Policy pathguard.TokenPolicy
}

// Lookup finds component templates under a trusted root.
type Lookup struct {
	root   *pathguard.Root
	policy pathguard.TokenPolicy
}

// NewLookup builds a template lookup.
func NewLookup(cfg LookupConfig) (*Lookup, error) {
	if cfg.Root == nil {
		return nil, fmt.Errorf("render: templates root is required")
	}
	return &Lookup{root: cfg.Root, policy: cfg.Policy}, nil
}

// Find resolves the template file for a component type and template name:
// components/<type>/<template>.html, falling back to default.html for the
// type when the named template does not exist. component_type is not
// assumed to come from a closed set, so it is validated like any token.
func (l *Lookup) Find(componentType, templateName string) (pathguard.Resolved, error) {
	typeToken, err := l.policy.Validate(componentType)
	if err != nil {
		return pathguard.Resolved{}, fmt.Errorf("component type: %w", err)
	}
	nameToken, err := l.policy.Validate(templateName)
	if err != nil {
		return pathguard.Resolved{}, fmt.Errorf("template name: %w", err)
	}

	rel := path.Join("components", typeToken.String(), nameToken.String()+templateSuffix)
	resolved, err := l.root.Resolve(rel)
	if err == nil {
		return resolved, nil
	}
	if kind, ok := pathguard.KindOf(err); !ok || kind != pathguard.KindNotFound {
		return pathguard.Resolved{}, err
	}

	fallback := path.Join("components", typeToken.String(), defaultTemplate+templateSuffix)
	resolved, err = l.root.Resolve(fallback)
	if err != nil {
		return pathguard.Resolved{}, err
	}
	return resolved, nil
}

// ComponentData is the execution context handed to component templates.
type ComponentData struct {
	Type    string
	Text    string
	FileURL string
}

// Render finds, parses, and executes the template for one component.
// Templates are operator-editable at runtime, so they parse on every
// render rather than at build time.
func (l *Lookup) Render(w io.Writer, componentType, templateName string, data ComponentData) error {
	resolved, err := l.Find(componentType, templateName)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(resolved.Path())
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	tmpl, err := template.New("component").Parse(string(raw))
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	return nil
}
