package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalize(t *testing.T, doc string) map[string]any {
	t.Helper()
	out, _, err := NormalizeRecordJSON([]byte(doc), nil)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	return m
}

func TestNormalizeEssentialNullsToNone(t *testing.T) {
	m := normalize(t, `{"project_name": null, "contractor_name": "", "billing_date": "01/01/2024"}`)
	assert.Equal(t, NoneMarker, m["project_name"])
	assert.Equal(t, NoneMarker, m["contractor_name"])
	assert.Equal(t, NoneMarker, m["invoice_number"], "missing essential gets the marker too")
	assert.Equal(t, "01/01/2024", m["billing_date"])
}

func TestNormalizeItemKeySynonyms(t *testing.T) {
	doc := `{"items": [{"item": "Lumber", "item type": "material", "unit price": "$5.00", "total price": "$50.00"}]}`
	m := normalize(t, doc)
	items := m["items"].([]any)
	it := items[0].(map[string]any)
	assert.Equal(t, "material", it["item_type"])
	assert.Equal(t, "$5.00", it["unit_price"])
	assert.Equal(t, "$50.00", it["total_price"])
	assert.NotContains(t, it, "item type")
}

func TestNormalizeClassificationSynonyms(t *testing.T) {
	doc := `{"items": [
		{"item": "a", "item_type": "Labour", "total_price": "$1"},
		{"item": "b", "item_type": "Materials", "total_price": "$2"}
	]}`
	m := normalize(t, doc)
	items := m["items"].([]any)
	assert.Equal(t, "labor", items[0].(map[string]any)["item_type"])
	assert.Equal(t, "material", items[1].(map[string]any)["item_type"])
}

func TestNormalizeCoercesNumericMoney(t *testing.T) {
	doc := `{"items": [{"item": "a", "item_type": "labor", "quantity": 2, "unit_price": 20, "total_price": 40.5}]}`
	m := normalize(t, doc)
	it := m["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "2", it["quantity"])
	assert.Equal(t, "20", it["unit_price"])
	assert.Equal(t, "40.50", it["total_price"])
}

func TestNormalizeStripsUnknownKeys(t *testing.T) {
	doc := `{"billing_date": "01/01/2024", "client_address": "12 Elm St",
		"items": [{"item": "a", "item_type": "labor", "total_price": "$1", "confidence": 0.9}]}`
	m := normalize(t, doc)
	assert.NotContains(t, m, "client_address")
	it := m["items"].([]any)[0].(map[string]any)
	assert.NotContains(t, it, "confidence")
}

func TestNormalizeTopLevelSynonyms(t *testing.T) {
	doc := `{"contractor": "Acme Co", "invoice_no": "445", "line_items": []}`
	m := normalize(t, doc)
	assert.Equal(t, "Acme Co", m["contractor_name"])
	assert.Equal(t, "445", m["invoice_number"])
	assert.Contains(t, m, "items")
}

func TestNormalizeRejectsNonObject(t *testing.T) {
	_, _, err := NormalizeRecordJSON([]byte(`[1,2,3]`), nil)
	require.Error(t, err)
	_, _, err = NormalizeRecordJSON([]byte(`garbage`), nil)
	require.Error(t, err)
}

// Sanitizing a schema-valid document leaves it schema-valid.
func TestNormalizeThenValidate(t *testing.T) {
	out, _, err := NormalizeRecordJSON([]byte(validRecordJSON), nil)
	require.NoError(t, err)
	require.NoError(t, ValidateJSONAgainstSchema(BuildInvoiceJSONSchema(), out))
}
