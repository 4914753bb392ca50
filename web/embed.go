package web

import "embed"

// TemplatesFS holds the dashboard page, its partial and the error page.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the chart script and stylesheet.
//
//go:embed static/*
var StaticFS embed.FS
