// Package tokenizer provides a uniform token-count approximation shared by
// the scanner and every provider backend. Backends do not expose a consistent
// exact tokenizer, so a single ~4 chars per token heuristic is used for both
// budgeting and cost estimation.
package tokenizer

// Count estimates the number of model tokens in text, rounding up.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}

// CountBytes estimates the number of model tokens in raw file content.
func CountBytes(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	return (len(data) + 3) / 4
}
