package fields

import "fmt"

// maxTextRunes bounds how much extracted text is sent to the model.
const maxTextRunes = 6000

// maxTokens bounds the model's answer for field extraction.
const maxTokens = 800

// BuildPrompt builds the field extraction prompt for the given document text.
func BuildPrompt(text string) string {
	return fmt.Sprintf(`Extract invoice fields from the following text. Return a raw JSON object with exactly these fields:
vendor, date, invoice_number, line_items (list of objects with description, qty, price), subtotal, tax, total.
If a field is missing, use null.
IMPORTANT: ONLY return the raw JSON object. Do not wrap it in markdown code fences and do not add any explanation.

TEXT:
%s`, prefix(text, maxTextRunes))
}

// prefix returns at most n runes of s.
func prefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
