// Package template defines the template engine seam renderers rely on, so the
// HTML toolkit can swap engines without touching widget logic.
package template
