package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-intake/pkg/model"
)

// DecodeYAML parses the native form definition. Unknown keys are rejected so
// typos in field attributes surface at load time.
func DecodeYAML(doc Document) (model.FormModel, error) {
	var form model.FormModel
	dec := yaml.NewDecoder(bytes.NewReader(doc.raw))
	dec.KnownFields(true)
	if err := dec.Decode(&form); err != nil {
		if errors.Is(err, io.EOF) {
			return model.FormModel{}, fmt.Errorf("schema: %s is empty", doc.Location())
		}
		return model.FormModel{}, fmt.Errorf("schema: parse %s: %w", doc.Location(), err)
	}
	return form, nil
}
