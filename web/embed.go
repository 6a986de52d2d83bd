package web

import "embed"

// TemplatesFS embeds the HTML templates for printable reports.
//
//go:embed templates/*.html
var TemplatesFS embed.FS
