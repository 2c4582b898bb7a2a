// Package model exposes the intake form definition types: fields, sections,
// select options and the FormModel presenters and the submission pipeline
// consume. The concrete implementation lives in internal/model; this package
// re-exports it together with normalisation and structural validation.
package model
