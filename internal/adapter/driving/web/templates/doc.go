// Package templates holds the templ components shared by every page.
//
// The *_templ.go files are generated from the .templ sources by
// `go tool templ generate`.
package templates
