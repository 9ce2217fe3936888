package render

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// PageShell wraps pre-rendered component HTML in the fixed page chrome.
// The chrome is code, not an on-disk template, so it needs no lookup or
// token validation; the title is escaped, the body is trusted output of
// the component renderer.
func PageShell(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\"/>\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>\n<title>"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, templ.EscapeString(title)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</title>\n</head>\n<body>\n<main>\n"); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "\n</main>\n</body>\n</html>\n")
		return err
	})
}
