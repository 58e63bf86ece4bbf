package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// NormalizeRecordJSON
// - Renames known key synonyms ("item type" -> "item_type", "labour" -> "labor")
// - Replaces null/empty essential fields with the explicit NoneMarker
// - Coerces numeric -> string for money-ish fields
// - Removes unknown keys (strict additionalProperties = false friendliness)
func NormalizeRecordJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename top-level synonyms to our schema
	renamed("project", "project_name")
	renamed("contractor", "contractor_name")
	renamed("invoice_no", "invoice_number")
	renamed("total_price", "total_invoice_price")
	renamed("line_items", "items")

	// 2) essential fields: null / "" / missing -> explicit NoneMarker
	essential := []string{"project_name", "contractor_name", "billing_date", "invoice_number"}
	for _, k := range essential {
		v, ok := m[k]
		if !ok || v == nil {
			m[k] = NoneMarker
			dropped = append(dropped, k+"(none)")
			continue
		}
		if s, isStr := v.(string); isStr {
			s = strings.TrimSpace(s)
			if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
				m[k] = NoneMarker
				dropped = append(dropped, k+"(none)")
			} else {
				m[k] = s
			}
		}
	}

	// 3) money fields: coerce numbers to strings, drop null/empty optionals
	coerceMoney(m, "total_invoice_price", &dropped)

	// 4) items: normalize each entry
	if arr, ok := m["items"].([]any); ok {
		for i, it := range arr {
			im, ok := it.(map[string]any)
			if !ok {
				continue
			}
			itemRename := func(from, to string) {
				if v, ok := im[from]; ok {
					if _, exists := im[to]; !exists {
						im[to] = v
					}
					delete(im, from)
					dropped = append(dropped, fmt.Sprintf("items[%d].%s->%s", i, from, to))
				}
			}
			itemRename("item type", "item_type")
			itemRename("type", "item_type")
			itemRename("name", "item")
			itemRename("unit price", "unit_price")
			itemRename("total price", "total_price")
			itemRename("total", "total_price")

			// classification synonyms
			if v, ok := im["item_type"].(string); ok {
				s := strings.ToLower(strings.TrimSpace(v))
				switch s {
				case "labour", "labor cost", "labor costs":
					s = string(ItemTypeLabor)
				case "materials", "material cost", "material costs":
					s = string(ItemTypeMaterial)
				}
				im["item_type"] = s
			}

			for _, k := range []string{"quantity", "unit_price", "total_price"} {
				coerceMoney(im, k, &dropped)
			}
			for k := range maps.Clone(im) {
				switch k {
				case "item", "item_type", "quantity", "unit", "unit_price", "total_price":
				default:
					delete(im, k)
					dropped = append(dropped, fmt.Sprintf("items[%d].%s(unknown)", i, k))
				}
			}
			arr[i] = im
		}
		m["items"] = arr
	}

	// 5) remove unknown top-level keys
	allowed := map[string]struct{}{
		"project_name": {}, "contractor_name": {}, "billing_date": {},
		"invoice_number": {}, "total_invoice_price": {}, "items": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

func coerceMoney(m map[string]any, k string, dropped *[]string) {
	v, ok := m[k]
	if !ok {
		return
	}
	switch t := v.(type) {
	case float64:
		if t == float64(int64(t)) {
			m[k] = fmt.Sprintf("%d", int64(t))
		} else {
			m[k] = fmt.Sprintf("%.2f", t)
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			delete(m, k)
			*dropped = append(*dropped, k+"(empty)")
		} else {
			m[k] = s
		}
	case nil:
		delete(m, k)
		*dropped = append(*dropped, k+"(null)")
	default:
		delete(m, k)
		*dropped = append(*dropped, k+"(type)")
	}
}
