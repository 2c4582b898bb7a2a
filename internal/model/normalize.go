package model

import "strings"

// Options configures Normalize. A nil Labeler uses DefaultLabeler.
type Options struct {
	Labeler func(string) string
}

// Normalize returns a copy of form with labels derived for unlabeled fields,
// sections and options, and with option values trimmed. The input is not
// mutated.
func Normalize(form FormModel, options Options) FormModel {
	opts := options
	if opts.Labeler == nil {
		opts.Labeler = DefaultLabeler
	}

	out := form
	out.ID = strings.TrimSpace(form.ID)
	out.Metadata = cloneStrings(form.Metadata)

	if len(form.Sections) > 0 {
		out.Sections = make([]Section, len(form.Sections))
		for i, section := range form.Sections {
			section.ID = strings.TrimSpace(section.ID)
			if strings.TrimSpace(section.Title) == "" {
				section.Title = opts.Labeler(section.ID)
			}
			out.Sections[i] = section
		}
	}

	out.Fields = make([]Field, len(form.Fields))
	for i, field := range form.Fields {
		field.Name = strings.TrimSpace(field.Name)
		field.Section = strings.TrimSpace(field.Section)
		field.RequiredIf = strings.TrimSpace(field.RequiredIf)
		if strings.TrimSpace(field.Label) == "" {
			field.Label = opts.Labeler(field.Name)
		}
		if len(field.Options) > 0 {
			options := make([]Option, len(field.Options))
			for j, opt := range field.Options {
				opt.Value = strings.TrimSpace(opt.Value)
				if strings.TrimSpace(opt.Label) == "" {
					opt.Label = opts.Labeler(opt.Value)
				}
				options[j] = opt
			}
			field.Options = options
		}
		field.Metadata = cloneStrings(field.Metadata)
		out.Fields[i] = field
	}
	return out
}

func cloneStrings(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
