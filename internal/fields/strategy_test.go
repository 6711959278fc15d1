package fields_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/fields"
)

func TestStructuredStrategy_Parse(t *testing.T) {
	rec, err := fields.StructuredStrategy{}.Parse("  {\"vendor\": \"Acme\", \"total\": 12.5}\n")

	require.NoError(t, err)
	assert.Equal(t, "Acme", rec["vendor"])
	assert.Equal(t, 12.5, rec["total"])
}

func TestStructuredStrategy_RejectsProse(t *testing.T) {
	_, err := fields.StructuredStrategy{}.Parse("Here you go: {\"vendor\": \"Acme\"}")
	assert.Error(t, err)
}

func TestStructuredStrategy_RejectsNonObject(t *testing.T) {
	_, err := fields.StructuredStrategy{}.Parse(`[1, 2, 3]`)
	assert.Error(t, err)

	_, err = fields.StructuredStrategy{}.Parse(`null`)
	assert.Error(t, err)
}

func TestBraceScanStrategy_FencedAnswer(t *testing.T) {
	output := "Sure!\n```json\n{\"vendor\": \"Acme\", \"line_items\": [{\"description\": \"a {b}\", \"qty\": 1}]}\n```\nLet me know."

	rec, err := fields.BraceScanStrategy{}.Parse(output)

	require.NoError(t, err)
	assert.Equal(t, "Acme", rec["vendor"])
	items := rec["line_items"].([]interface{})
	assert.Len(t, items, 1)
}

func TestBraceScanStrategy_FirstObjectWins(t *testing.T) {
	rec, err := fields.BraceScanStrategy{}.Parse(`{"vendor": "First"} and later {"vendor": "Second"}`)

	require.NoError(t, err)
	assert.Equal(t, "First", rec["vendor"])
}

func TestBraceScanStrategy_EscapedQuotesInStrings(t *testing.T) {
	rec, err := fields.BraceScanStrategy{}.Parse(`answer: {"vendor": "The \"}\" Shop", "total": 3}`)

	require.NoError(t, err)
	assert.Equal(t, `The "}" Shop`, rec["vendor"])
}

func TestBraceScanStrategy_NoBraces(t *testing.T) {
	_, err := fields.BraceScanStrategy{}.Parse("I could not find an invoice.")
	assert.Error(t, err)
}

func TestBraceScanStrategy_Unparseable(t *testing.T) {
	_, err := fields.BraceScanStrategy{}.Parse(`{vendor: Acme}`)
	assert.Error(t, err)
}

func TestChain_FirstSuccessWins(t *testing.T) {
	chain := fields.Chain{fields.StructuredStrategy{}, fields.BraceScanStrategy{}}

	rec, name, err := chain.Parse(`{"vendor": "Acme"}`)
	require.NoError(t, err)
	assert.Equal(t, "structured", name)
	assert.Equal(t, "Acme", rec["vendor"])

	rec, name, err = chain.Parse("prefix {\"vendor\": \"Acme\"} suffix")
	require.NoError(t, err)
	assert.Equal(t, "brace-scan", name)
	assert.Equal(t, "Acme", rec["vendor"])
}

func TestChain_AllFail(t *testing.T) {
	chain := fields.Chain{fields.StructuredStrategy{}, fields.BraceScanStrategy{}}

	rec, name, err := chain.Parse("nothing here")

	assert.Nil(t, rec)
	assert.Empty(t, name)
	assert.Error(t, err)
}

func TestGiveUp(t *testing.T) {
	rec := fields.GiveUp("invoice text", "garbage", errors.New("bad json"))

	assert.Equal(t, domain.RawRecord{
		"raw_text":   "invoice text",
		"llm_output": "garbage",
		"error":      "bad json",
	}, rec)
}
