// Package orchestrator runs the intake submission pipeline: validate every
// field, snapshot the form into a record, format the report, hand the
// submission to a relay and report the outcome through the feedback banner.
// Presentation is reached only through the Presenter interface and the form
// observers, so the same pipeline drives the terminal and HTML surfaces.
package orchestrator
