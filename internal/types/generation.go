package types

// GenerationResult is the outcome of one call to the text generator.
// Exactly one of Text or Err is meaningful.
type GenerationResult struct {
	Text string
	Err  error
}

// OK reports whether the call produced text
func (r GenerationResult) OK() bool {
	return r.Err == nil
}

// Message returns a human-readable description of the failure, or "" on success
func (r GenerationResult) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
