package model

// Decorator adjusts a decoded definition before it is normalised and
// validated, e.g. an overlay relabelling fields for a campaign.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc lets a plain function act as a Decorator.
type DecoratorFunc func(*FormModel) error

func (fn DecoratorFunc) Decorate(form *FormModel) error { return fn(form) }

// Chain applies decorators in order, skipping nil entries and stopping at
// the first error.
func Chain(decorators ...Decorator) Decorator {
	return DecoratorFunc(func(form *FormModel) error {
		for _, d := range decorators {
			if d == nil {
				continue
			}
			if err := d.Decorate(form); err != nil {
				return err
			}
		}
		return nil
	})
}
