package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sardorqobilov/fieldsale-client/internal/products"
)

// GetProduct fetches the current catalog record for a product id. Drafts are
// re-hydrated through this call so editing works against live price and
// stock, not the snapshot saved with the draft.
func (c *Client) GetProduct(ctx context.Context, productID string) (*products.Product, error) {
	var product products.Product
	if err := c.do(ctx, "get_product", http.MethodGet, "/products/"+url.PathEscape(productID), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
