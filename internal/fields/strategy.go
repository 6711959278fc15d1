package fields

import (
	"encoding/json"
	"errors"
	"strings"

	"invoiceinsight/internal/domain"
)

var errNoObject = errors.New("no JSON object found in model output")

// Strategy turns a model answer into a RawRecord or reports why it could not.
type Strategy interface {
	Name() string
	Parse(output string) (domain.RawRecord, error)
}

// StructuredStrategy decodes the whole answer. It is only placed in the chain when the
// generator's JSON object mode guarantees the shape.
type StructuredStrategy struct{}

func (StructuredStrategy) Name() string { return "structured" }

func (StructuredStrategy) Parse(output string) (domain.RawRecord, error) {
	return decodeObject(strings.TrimSpace(output))
}

// BraceScanStrategy looks for a JSON object embedded in free text: first the
// balanced object that starts at the first '{', then the span from the first '{'
// to the last '}'.
type BraceScanStrategy struct{}

func (BraceScanStrategy) Name() string { return "brace-scan" }

func (BraceScanStrategy) Parse(output string) (domain.RawRecord, error) {
	start := strings.IndexByte(output, '{')
	if start < 0 {
		return nil, errNoObject
	}

	var firstErr error
	if end := matchingBrace(output, start); end > start {
		rec, err := decodeObject(output[start : end+1])
		if err == nil {
			return rec, nil
		}
		firstErr = err
	}

	last := strings.LastIndexByte(output, '}')
	if last <= start {
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, errNoObject
	}
	return decodeObject(output[start : last+1])
}

// matchingBrace returns the index of the '}' closing the '{' at open, skipping
// braces inside string literals, or -1 when unbalanced.
func matchingBrace(s string, open int) int {
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func decodeObject(s string) (domain.RawRecord, error) {
	var rec domain.RawRecord
	if err := json.Unmarshal([]byte(s), &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		// "null" decodes without error
		return nil, errNoObject
	}
	return rec, nil
}

// Chain tries each strategy in order; the first success wins.
type Chain []Strategy

// Parse returns the first successful record, the winning strategy's name, or the
// last error when every strategy failed.
func (c Chain) Parse(output string) (domain.RawRecord, string, error) {
	err := errNoObject
	for _, s := range c {
		rec, perr := s.Parse(output)
		if perr == nil {
			return rec, s.Name(), nil
		}
		err = perr
	}
	return nil, "", err
}

// GiveUp is the terminal record for an answer no strategy could parse.
func GiveUp(text, output string, err error) domain.RawRecord {
	return domain.RawRecord{
		domain.RawKeyText:      text,
		domain.RawKeyLLMOutput: output,
		domain.RawKeyError:     err.Error(),
	}
}
