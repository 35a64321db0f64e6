package gsd

// FormatError reports input that yielded no sounding reports at all,
// as opposed to a structural error inside an individual report.
type FormatError struct{}

func (e *FormatError) Error() string {
	return "Failed to parse. Ensure the input is a valid GSD formatted string."
}
