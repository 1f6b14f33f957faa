package products

import (
	"strings"

	"github.com/sardorqobilov/fieldsale-client/pkg/types"
)

// Product is the catalog snapshot the engine works against. Price and stock
// come from the backend and may arrive in either numeric wire shape; the
// decimal codec hides that.
type Product struct {
	ID             string        `json:"_id"`
	Name           string        `json:"name"`
	Price          types.Decimal `json:"price"`
	AvailableStock types.Decimal `json:"stock"`
	Unit           string        `json:"unit"`
	UnitSize       types.Decimal `json:"unitSize"`
	ShopID         string        `json:"shopId"`
}

// Valid reports whether the snapshot carries a usable identifier.
func (p Product) Valid() bool {
	return strings.TrimSpace(p.ID) != ""
}

// Ref converts the snapshot into a fully populated draft product reference.
func (p Product) Ref() types.ProductRef {
	return types.ProductRef{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		AvailableStock: p.AvailableStock,
		Unit:           p.Unit,
		UnitSize:       p.UnitSize,
		ShopID:         p.ShopID,
	}
}

// FromRef rebuilds a snapshot from a populated draft product reference.
func FromRef(ref types.ProductRef) Product {
	return Product{
		ID:             ref.ID,
		Name:           ref.Name,
		Price:          ref.Price,
		AvailableStock: ref.AvailableStock,
		Unit:           ref.Unit,
		UnitSize:       ref.UnitSize,
		ShopID:         ref.ShopID,
	}
}
