// Package components holds the templ components of the web UI. The
// *_templ.go files are generated; edit the .templ sources and regenerate.
package components

//go:generate go run technotes/framework/cmd/templgen --path . --base ../../..
