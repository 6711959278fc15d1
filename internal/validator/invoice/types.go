package invoice

// ValidationResult is the outcome of one rule applied to one field path.
type ValidationResult struct {
	Passed        bool
	FieldPath     string
	ExpectedValue string
	ActualValue   string
	Message       string
}
