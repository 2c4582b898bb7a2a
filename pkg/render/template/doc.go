// Package template defines the template engine seam used by the report
// formatter and the HTML presenter. The pongo2-backed implementation lives
// in the gotemplate subpackage.
package template
