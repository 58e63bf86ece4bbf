package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rachel-analytics/invoice-insight/internal/common"
	"github.com/rachel-analytics/invoice-insight/internal/llm"
)

func completionReply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: ts.URL}, nil)
}

func TestExtractInvoiceOK(t *testing.T) {
	content := `{
		"project_name": "Riverside Estates",
		"contractor_name": "Acme Co",
		"billing_date": "01/02/2024",
		"invoice_number": "445",
		"items": [
			{"item": "Lumber", "item_type": "material", "quantity": "10", "unit": "pcs", "unit_price": "$5.00", "total_price": "$50.00"},
			{"item": "Install", "item_type": "labor", "quantity": "2", "unit": "hr", "unit_price": "$20", "total_price": "$40.00"}
		]
	}`
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, completionReply(content))
	})

	rec, raw, err := c.ExtractInvoice(context.Background(), llm.ExtractRequest{Text: "some invoice text"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.NotEmpty(t, raw)
	assert.Equal(t, "Acme Co", rec.ContractorName)
	require.Len(t, rec.Items, 2)
	assert.Equal(t, llm.ItemTypeMaterial, rec.Items[0].ItemType)
	assert.Equal(t, llm.ItemTypeLabor, rec.Items[1].ItemType)
}

// Model drift (numeric money, spaced keys, null essentials) is absorbed by
// the sanitize pass before decoding.
func TestExtractInvoiceSanitizesDrift(t *testing.T) {
	content := `{
		"project_name": null,
		"contractor_name": "Acme Co",
		"billing_date": "01/02/2024",
		"invoice_number": "445",
		"items": [
			{"item": "Install", "item type": "Labour", "quantity": 2, "unit": "hr", "unit price": 20, "total price": 40}
		]
	}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, completionReply(content))
	})

	rec, _, err := c.ExtractInvoice(context.Background(), llm.ExtractRequest{Text: "text"})
	require.NoError(t, err)
	assert.Equal(t, llm.NoneMarker, rec.ProjectName)
	require.Len(t, rec.Items, 1)
	assert.Equal(t, llm.ItemTypeLabor, rec.Items[0].ItemType)
	assert.Equal(t, "40", rec.Items[0].TotalPrice)
}

func TestExtractInvoiceUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	})

	_, _, err := c.ExtractInvoice(context.Background(), llm.ExtractRequest{Text: "text"})
	require.Error(t, err)
	assert.Equal(t, common.CodeUpstream, common.CodeOf(err))
}

func TestExtractInvoiceUnparseableReply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, completionReply("Sure! Here is the invoice summary you asked for."))
	})

	_, _, err := c.ExtractInvoice(context.Background(), llm.ExtractRequest{Text: "text"})
	require.Error(t, err)
	assert.Equal(t, common.CodeParse, common.CodeOf(err))
}

func TestExtractInvoiceSchemaViolation(t *testing.T) {
	// Valid JSON, wrong shape: items is a string. Rejected by validation
	// rather than passed downstream.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, completionReply(`{"project_name": "P", "contractor_name": "C", "billing_date": "D", "invoice_number": "1", "items": "none"}`))
	})

	_, _, err := c.ExtractInvoice(context.Background(), llm.ExtractRequest{Text: "text"})
	require.Error(t, err)
	assert.Equal(t, common.CodeParse, common.CodeOf(err))
}

func TestCompleteOK(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, completionReply("The forecast peaks in 2025."))
	})
	c.cfg.MaxTokens = 500

	reply, err := c.Complete(context.Background(), "system prompt", "user question")
	require.NoError(t, err)
	assert.Equal(t, "The forecast peaks in 2025.", reply)
	assert.Equal(t, float64(500), body["max_tokens"])

	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user question", msgs[1].(map[string]any)["content"])
}

func TestCompleteUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "auth failed", http.StatusUnauthorized)
	})

	_, err := c.Complete(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.Equal(t, common.CodeUpstream, common.CodeOf(err))
}
