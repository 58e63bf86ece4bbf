package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// NoneMarker is the explicit absence value for essential invoice fields.
// The model is instructed to emit it rather than omit the field.
const NoneMarker = "None"

// ItemType classifies a line item as material or labor. Anything else is a
// decode failure, never a silent aggregation no-op.
type ItemType string

const (
	ItemTypeMaterial ItemType = "material"
	ItemTypeLabor    ItemType = "labor"
)

func (t *ItemType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("item_type: %w", err)
	}
	switch ItemType(strings.ToLower(strings.TrimSpace(s))) {
	case ItemTypeMaterial:
		*t = ItemTypeMaterial
	case ItemTypeLabor:
		*t = ItemTypeLabor
	default:
		return fmt.Errorf("item_type: unknown value %q", s)
	}
	return nil
}

// LineItem is one extracted invoice row. Monetary fields stay strings as
// extracted (currency symbols included); parsing happens in the report layer.
type LineItem struct {
	Item       string   `json:"item"`
	ItemType   ItemType `json:"item_type"`
	Quantity   string   `json:"quantity"`
	Unit       string   `json:"unit"`
	UnitPrice  string   `json:"unit_price"`
	TotalPrice string   `json:"total_price"`
}

// InvoiceRecord is the normalized shape we want from the LLM.
type InvoiceRecord struct {
	ProjectName       string     `json:"project_name"`
	ContractorName    string     `json:"contractor_name"`
	BillingDate       string     `json:"billing_date"` // DD/MM/YYYY
	InvoiceNumber     string     `json:"invoice_number"`
	TotalInvoicePrice string     `json:"total_invoice_price,omitempty"`
	Items             []LineItem `json:"items"`
}

// ExtractRequest carries the raw text pulled from the uploaded document.
type ExtractRequest struct {
	Text         string
	FilenameHint string
	PageCount    int
}

// FieldExtractor is the interface the upload pipeline depends on.
type FieldExtractor interface {
	ExtractInvoice(ctx context.Context, req ExtractRequest) (InvoiceRecord, []byte /*rawJSON*/, error)
}

// ChatCompleter is the interface the forecast chat service depends on.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
