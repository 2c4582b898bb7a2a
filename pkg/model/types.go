package model

import internalmodel "github.com/goliatone/go-intake/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeText     = internalmodel.FieldTypeText
	FieldTypeEmail    = internalmodel.FieldTypeEmail
	FieldTypeTel      = internalmodel.FieldTypeTel
	FieldTypeDate     = internalmodel.FieldTypeDate
	FieldTypeNumber   = internalmodel.FieldTypeNumber
	FieldTypeSelect   = internalmodel.FieldTypeSelect
	FieldTypeTextArea = internalmodel.FieldTypeTextArea
	FieldTypeCheckbox = internalmodel.FieldTypeCheckbox
)

// ReservedPrefix re-exports the payload key prefix field names may not use.
const ReservedPrefix = internalmodel.ReservedPrefix

type Option = internalmodel.Option
type Section = internalmodel.Section
type Field = internalmodel.Field
type FormModel = internalmodel.FormModel
