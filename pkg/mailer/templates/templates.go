package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
)

//go:embed *.tmpl
var FS embed.FS

// Render renders the named template with the given data and returns the
// subject and HTML body.
func Render(name string, data map[string]any) (subject, html string, err error) {
	t, err := htmpl.ParseFS(FS, name+".tmpl")
	if err != nil {
		return "", "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render template %s: %w", name, err)
	}
	return Subject(name), buf.String(), nil
}

// Subject maps a template name to its email subject line.
func Subject(name string) string {
	switch name {
	case "welcome":
		return "Welcome to CareerPath"
	default:
		return "Notification"
	}
}
