package backend

import (
	"context"
	"net/http"
)

// CreateDirectSale submits an immediate cash/card sale.
func (c *Client) CreateDirectSale(ctx context.Context, req DirectSaleRequest) (*OrderRecord, error) {
	var order OrderRecord
	key := c.NewIdempotencyKey("direct")
	if err := c.do(ctx, "create_direct_sale", http.MethodPost, "/orders/direct", req, &order, WithIdempotencyKey(key)); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateInstallmentSale submits a deferred-payment sale carrying buyer KYC
// data and the monthly schedule.
func (c *Client) CreateInstallmentSale(ctx context.Context, req InstallmentSaleRequest) (*OrderRecord, error) {
	var order OrderRecord
	key := c.NewIdempotencyKey("installment")
	if err := c.do(ctx, "create_installment_sale", http.MethodPost, "/orders", req, &order, WithIdempotencyKey(key)); err != nil {
		return nil, err
	}
	return &order, nil
}
