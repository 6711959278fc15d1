package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	errEmpty     = errors.New("empty amount")
	errNonFinite = errors.New("amount is not finite")
)

// isoCurrencyCodes are stripped when they lead or trail an amount string.
var isoCurrencyCodes = []string{"usd", "eur", "gbp", "inr", "cad", "aud", "jpy"}

// parseAmount coerces a model-produced scalar into a finite float. Strings are
// stripped of currency symbols, ISO codes, thousands separators and whitespace
// before parsing. errEmpty is returned for strings that strip to nothing.
func parseAmount(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return finite(f)
	case string:
		s := stripAmount(n)
		if s == "" {
			return 0, errEmpty
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return finite(f)
	default:
		return 0, fmt.Errorf("unsupported amount type %T", v)
	}
}

func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNonFinite
	}
	return f, nil
}

func stripAmount(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, s)

	lower := strings.ToLower(s)
	for _, code := range isoCurrencyCodes {
		switch {
		case strings.HasPrefix(lower, code):
			return s[len(code):]
		case strings.HasSuffix(lower, code):
			return s[:len(s)-len(code)]
		}
	}
	return s
}
