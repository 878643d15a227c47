package validator

// Validator checks a struct against its validation rules.
type Validator interface {
	// Validate returns nil when data passes all rules, or a descriptive error.
	Validate(data any) error
}
