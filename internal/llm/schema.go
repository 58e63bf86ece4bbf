package llm

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass this to the model as a structured output constraint
// and also use it locally to validate the reply before decoding.
func BuildInvoiceJSONSchema() map[string]any {
	itemProps := map[string]any{
		"item":        map[string]any{"type": "string", "minLength": 1},
		"item_type":   map[string]any{"type": "string", "enum": []string{string(ItemTypeMaterial), string(ItemTypeLabor)}},
		"quantity":    map[string]any{"type": "string"},
		"unit":        map[string]any{"type": "string"},
		"unit_price":  map[string]any{"type": "string"},
		"total_price": map[string]any{"type": "string", "minLength": 1},
	}
	itemSchema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           itemProps,
		"required":             []string{"item", "item_type", "total_price"},
	}

	props := map[string]any{
		"project_name":        essentialProp(),
		"contractor_name":     essentialProp(),
		"billing_date":        essentialProp(),
		"invoice_number":      essentialProp(),
		"total_invoice_price": map[string]any{"type": "string"},
		"items": map[string]any{
			"type":  "array",
			"items": itemSchema,
		},
	}

	// Essential fields are required so the model can't omit them; the "None"
	// marker is the only sanctioned absence value.
	required := []string{"project_name", "contractor_name", "billing_date", "invoice_number", "items"}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func essentialProp() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}
