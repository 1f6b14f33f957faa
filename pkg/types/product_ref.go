package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ProductRef is the product reference carried on draft line items. Older drafts
// store a bare id string; newer ones embed the populated product object. Both
// decode to the same struct, and an unreadable reference yields an empty ID so
// the caller can skip the line instead of failing the whole draft.
type ProductRef struct {
	ID             string  `json:"_id"`
	Name           string  `json:"name"`
	Price          Decimal `json:"price"`
	AvailableStock Decimal `json:"stock"`
	Unit           string  `json:"unit"`
	UnitSize       Decimal `json:"unitSize"`
	ShopID         string  `json:"shopId"`
}

// UnmarshalJSON implements json.Unmarshaler for the id-or-object union.
func (p *ProductRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = ProductRef{}
		return nil
	}

	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			*p = ProductRef{}
			return nil
		}
		*p = ProductRef{ID: strings.TrimSpace(id)}
		return nil
	}

	type alias ProductRef
	var decoded alias
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		*p = ProductRef{}
		return nil
	}
	decoded.ID = strings.TrimSpace(decoded.ID)
	*p = ProductRef(decoded)
	return nil
}

// Resolvable reports whether the reference carries a usable product id.
func (p ProductRef) Resolvable() bool {
	return p.ID != ""
}
