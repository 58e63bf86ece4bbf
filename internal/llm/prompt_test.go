package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemPromptCoversContractRules(t *testing.T) {
	p := BuildSystemPrompt()

	// Absence marker, never omission.
	assert.Contains(t, p, `"None"`)
	assert.Contains(t, p, "Never omit an essential field")

	// Classification and discard rules.
	assert.Contains(t, p, "material")
	assert.Contains(t, p, "labor")
	assert.Contains(t, p, "allowances section")
	assert.Contains(t, p, "address, phone number, fax number")

	// Rollup rule is explicit, not left to model judgment.
	assert.Contains(t, p, "rolled-up total")
	assert.Contains(t, p, "Never report both a subtotal and its constituents")

	// Date format.
	assert.Contains(t, p, "DD/MM/YYYY")
}

func TestUserPromptIncludesTextAndFilename(t *testing.T) {
	p := BuildUserPrompt(ExtractRequest{Text: "Invoice #445 from Acme", FilenameHint: "acme.pdf"})
	assert.Contains(t, p, "Filename: acme.pdf")
	assert.Contains(t, p, "Here is the extracted PDF text:\nInvoice #445 from Acme")
}

func TestChatSystemPromptFormattingRule(t *testing.T) {
	assert.Contains(t, ChatSystemPrompt, "financial analyst assistant")
	assert.Contains(t, ChatSystemPrompt, "currency formatting")
}
