package web

import "embed"

// StaticFS holds the embedded stylesheet and the busy-indicator script.
//
//go:embed static/*
var StaticFS embed.FS
