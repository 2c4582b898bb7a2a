package vanilla

import (
	"github.com/goliatone/go-intake/pkg/form"
	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/validation"
)

// View is the template data for the intake page.
type View struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Action      string            `json:"action"`
	Stylesheet  string            `json:"stylesheet"`
	ContactURL  string            `json:"contact_url"`
	Focus       string            `json:"focus"`
	Scroll      bool              `json:"scroll"`
	Sections    []SectionView     `json:"sections"`
	Banner      BannerView        `json:"banner"`
	Submit      SubmitView        `json:"submit"`
	Classes     map[string]string `json:"classes"`
}

// SectionView groups the fields of one section.
type SectionView struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Fields []FieldView `json:"fields"`
}

// FieldView is one rendered control.
type FieldView struct {
	ID          string       `json:"id"`
	ErrorID     string       `json:"error_id"`
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Kind        string       `json:"kind"`
	InputType   string       `json:"input_type"`
	Value       string       `json:"value"`
	Placeholder string       `json:"placeholder"`
	Description string       `json:"description"`
	Checked     bool         `json:"checked"`
	Required    bool         `json:"required"`
	RequiredIf  string       `json:"required_if"`
	Invalid     bool         `json:"invalid"`
	Error       string       `json:"error"`
	Autofocus   bool         `json:"autofocus"`
	Class       string       `json:"class"`
	Options     []OptionView `json:"options"`
}

// OptionView is one select option.
type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// BannerView is the feedback banner.
type BannerView struct {
	Visible bool   `json:"visible"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Link    string `json:"link"`
	Class   string `json:"class"`
}

// SubmitView is the submit control.
type SubmitView struct {
	Enabled bool   `json:"enabled"`
	Label   string `json:"label"`
}

// RenderOptions carries request-scoped page settings.
type RenderOptions struct {
	Action     string
	Stylesheet string
	ContactURL string
}

// BuildView assembles the template data for def from the page state.
func BuildView(def model.FormModel, page *PageState, opts RenderOptions) View {
	if page == nil {
		page = NewPageState(nil)
	}
	enabled, label := page.SubmitState()
	banner := page.Banner()
	focus := page.Focus()

	view := View{
		Title:       def.Title,
		Description: def.Description,
		Action:      opts.Action,
		Stylesheet:  opts.Stylesheet,
		ContactURL:  opts.ContactURL,
		Focus:       focus,
		Scroll:      page.Scrolled(),
		Submit:      SubmitView{Enabled: enabled, Label: label},
		Classes:     classes(),
	}
	if banner.Visible {
		view.Banner = BannerView{
			Visible: true,
			Kind:    string(banner.Kind),
			Message: banner.Message,
			Link:    banner.Link,
			Class:   bannerClass(banner.Kind),
		}
	}

	bySection := make(map[string][]FieldView)
	for _, field := range def.Fields {
		bySection[field.Section] = append(bySection[field.Section], fieldView(field, page, focus))
	}
	for _, sec := range def.Sections {
		if fields := bySection[sec.ID]; len(fields) > 0 {
			view.Sections = append(view.Sections, SectionView{ID: sec.ID, Title: sec.Title, Fields: fields})
		}
	}
	if fields := bySection[""]; len(fields) > 0 {
		view.Sections = append(view.Sections, SectionView{Fields: fields})
	}
	return view
}

func fieldView(def model.Field, page *PageState, focus string) FieldView {
	state, ok := page.Field(def.Name)
	if !ok {
		state.Def = def
		state.Required = def.Required
	}
	fv := FieldView{
		ID:          controlID(def.Name),
		ErrorID:     errorID(def.Name),
		Name:        def.Name,
		Label:       def.Label,
		Kind:        string(def.Type),
		InputType:   inputType(def.Type),
		Value:       state.Value,
		Placeholder: def.Placeholder,
		Description: def.Description,
		Checked:     state.Checked,
		Required:    state.Required,
		RequiredIf:  def.RequiredIf,
		Autofocus:   def.Name == focus,
		Class:       fieldClass(state),
	}
	if state.Validity == form.Invalid {
		fv.Invalid = true
		fv.Error = validation.DefaultMessage
	}
	for _, opt := range def.Options {
		fv.Options = append(fv.Options, OptionView{
			Value:    opt.Value,
			Label:    def.OptionLabel(opt.Value),
			Selected: opt.Value == state.Value,
		})
	}
	return fv
}
