package validator

// Validator validates structs against their declared rules.
type Validator interface {
	// Validate returns nil when data passes all declared rules, otherwise an
	// error describing the failed fields.
	Validate(data any) error
}
