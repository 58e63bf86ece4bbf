package llm

import (
	"strings"
)

// BuildSystemPrompt composes the system message with the extraction schema
// rules: which fields are essential, how line items are classified, and how
// section breakdowns must be rolled up.
func BuildSystemPrompt() string {
	parts := []string{
		"You are an invoice extraction assistant. You take text extracted from a PDF invoice and return ONLY JSON that matches the provided JSON Schema.",
		"Discard irrelevant information such as client contact data (address, phone number, fax number). Ignore the entire allowances section.",

		// Essential fields and the explicit absence marker:
		"The essential fields are: project_name (use the project location if a project name is not available but a location is), contractor_name, billing_date (DD/MM/YYYY), and invoice_number.",
		"If you cannot find an essential field, set it to the string \"" + NoneMarker + "\". Never omit an essential field and never invent a value.",

		// Line items and classification:
		"For each billed item, report its name, quantity, counting unit, unit price, and total price (quantity times unit price).",
		"Classify every item as exactly one of \"material\" or \"labor\" using the surrounding context; most documents do not state this explicitly.",

		// Rollup rule (made explicit so aggregation can trust a flat list):
		"When a section presents a price breakdown, emit one item carrying the section's rolled-up total and omit the constituent breakdown lines. Never report both a subtotal and its constituents.",

		"Include total_invoice_price (dollars and cents) when the document states a grand total.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the extracted document text with a filename hint.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	if f := strings.TrimSpace(req.FilenameHint); f != "" {
		b.WriteString("Filename: ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("\nHere is the extracted PDF text:\n")
	b.WriteString(req.Text)
	return b.String()
}

// ChatSystemPrompt is the fixed instruction for the forecast chat service.
const ChatSystemPrompt = "You are a financial analyst assistant. Help analyze revenue forecast data and answer questions about it. " +
	"When discussing monetary values, always use proper currency formatting with $ and commas. " +
	"Be concise but informative in your responses. Focus on the specific question asked while providing relevant context."
