package form

// Form holds the transient state of one form: current values and the errors
// from the last submit. Nothing here is persisted.
type Form struct {
	schema *Schema
	values Values
	errors Errors
}

func New(s *Schema) *Form {
	return &Form{schema: s, values: Values{}, errors: Errors{}}
}

func (f *Form) Schema() *Schema { return f.schema }

func (f *Form) Set(name, value string) {
	f.values[name] = value
}

func (f *Form) Value(name string) string { return f.values[name] }

// Errors returns the messages from the last Submit.
func (f *Form) Errors() Errors { return f.errors }

// Submit validates the current values. On success it returns the submitted
// values and clears the form; otherwise the values stay for correction and
// the errors are returned.
func (f *Form) Submit() (Values, Errors) {
	errs := f.schema.Validate(f.values)
	f.errors = errs
	if len(errs) > 0 {
		return nil, errs
	}
	submitted := make(Values, len(f.values))
	for k, v := range f.values {
		submitted[k] = v
	}
	f.Reset()
	return submitted, nil
}

// Reset clears values and errors.
func (f *Form) Reset() {
	f.values = Values{}
	f.errors = Errors{}
}
