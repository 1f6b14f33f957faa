package cart

import (
	"fmt"

	"github.com/sardorqobilov/fieldsale-client/internal/products"
	pkgerrors "github.com/sardorqobilov/fieldsale-client/pkg/errors"
	"github.com/sardorqobilov/fieldsale-client/pkg/types"
	"github.com/shopspring/decimal"
)

// LineItem pairs a product snapshot with the requested quantity. Quantities
// are decimal because fractional units (kilograms, liters) are sold.
type LineItem struct {
	Product  products.Product
	Quantity types.Decimal
}

// Subtotal returns unit price times requested quantity.
func (l LineItem) Subtotal() types.Decimal {
	return l.Product.Price.Mul(l.Quantity)
}

// DraftLine is one persisted draft row handed back to the cart for editing.
type DraftLine struct {
	Ref      types.ProductRef
	Quantity types.Decimal
}

// Cart is the working set of the sale being composed. It is owned by a single
// composition session; nothing mutates it concurrently.
type Cart struct {
	items []LineItem
}

func New() *Cart {
	return &Cart{}
}

// ParseQuantity converts agent input to a decimal quantity, rejecting
// non-numeric and non-positive values before they reach the cart.
func ParseQuantity(raw string) (types.Decimal, error) {
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return types.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("quantity %q is not a number", raw))
	}
	qty := types.NewDecimal(parsed)
	if !qty.IsPositive() {
		return types.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return qty, nil
}

// AddOrIncrement appends a new line for the product or, when the product is
// already present, raises that line's quantity. The post-increment total may
// never exceed the product's known stock at call time.
func (c *Cart) AddOrIncrement(product products.Product, quantity types.Decimal) error {
	if !product.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product has no identifier")
	}
	if !quantity.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	stock := product.AvailableStock
	for i := range c.items {
		if c.items[i].Product.ID != product.ID {
			continue
		}
		next := c.items[i].Quantity.Add(quantity)
		if next.GreaterThan(stock) {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("requested %s of %q, only %s in stock", next, product.Name, stock)).
				WithDetails(map[string]string{"product_id": product.ID})
		}
		c.items[i].Quantity = next
		return nil
	}

	if quantity.GreaterThan(stock) {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("requested %s of %q, only %s in stock", quantity, product.Name, stock)).
			WithDetails(map[string]string{"product_id": product.ID})
	}

	c.items = append(c.items, LineItem{Product: product, Quantity: quantity})
	return nil
}

// Remove drops the line at index. Out-of-range indexes are ignored.
func (c *Cart) Remove(index int) {
	if index < 0 || index >= len(c.items) {
		return
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
}

// Total recomputes the cart total on every call; no cached value is trusted.
func (c *Cart) Total() types.Decimal {
	var total types.Decimal
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// LoadFrom replaces the cart wholesale with one line per valid draft row.
// Rows whose product reference cannot be resolved are skipped and counted so
// the caller can surface a partial-success message. When nothing valid
// remains the cart is left untouched and editing is refused.
func (c *Cart) LoadFrom(lines []DraftLine) (skipped int, err error) {
	loaded := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		if !line.Ref.Resolvable() || !line.Quantity.IsPositive() {
			skipped++
			continue
		}
		loaded = append(loaded, LineItem{
			Product:  products.FromRef(line.Ref),
			Quantity: line.Quantity,
		})
	}
	if len(loaded) == 0 {
		return skipped, pkgerrors.New(pkgerrors.CodeEmptyCart, "draft has no loadable products")
	}
	c.items = loaded
	return skipped, nil
}
