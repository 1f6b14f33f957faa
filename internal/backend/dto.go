package backend

import (
	"time"

	"github.com/sardorqobilov/fieldsale-client/internal/session"
	"github.com/sardorqobilov/fieldsale-client/pkg/enums"
	"github.com/sardorqobilov/fieldsale-client/pkg/types"
)

// SaleProduct is one entry of the products[] array shared by draft-save and
// order-create requests.
type SaleProduct struct {
	ProductID string        `json:"productId"`
	Name      string        `json:"name"`
	Quantity  types.Decimal `json:"quantity"`
	Price     types.Decimal `json:"price"`
	Unit      string        `json:"unit"`
	UnitSize  types.Decimal `json:"unitSize"`
}

// DraftProduct is a persisted draft row as the backend returns it. The
// product reference may be a bare id or a populated object.
type DraftProduct struct {
	Product  types.ProductRef `json:"product"`
	Name     string           `json:"name"`
	Quantity types.Decimal    `json:"quantity"`
	Price    types.Decimal    `json:"price"`
	Unit     string           `json:"unit"`
	UnitSize types.Decimal    `json:"unitSize"`
}

// DraftOrder is the backend-owned draft snapshot.
type DraftOrder struct {
	ID             string            `json:"_id"`
	SequenceNumber int64             `json:"sequenceNumber"`
	Products       []DraftProduct    `json:"products"`
	TotalSum       types.Decimal     `json:"totalSum"`
	Status         enums.DraftStatus `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// SaveDraftRequest is the body for draft create and update.
type SaveDraftRequest struct {
	StoreOwner string        `json:"storeOwner"`
	Products   []SaleProduct `json:"products"`
	TotalSum   types.Decimal `json:"totalSum"`
}

// ConfirmDraftRequest finalizes a persisted draft. The installment fields are
// present only when the effective payment method is installment.
type ConfirmDraftRequest struct {
	PaymentMethod             enums.PaymentMethod   `json:"paymentMethod"`
	Status                    enums.DraftStatus     `json:"status"`
	StoreOwner                string                `json:"storeOwner"`
	InstallmentDurationMonths int                   `json:"installmentDurationMonths,omitempty"`
	StartDate                 *time.Time            `json:"startDate,omitempty"`
	Customer                  *session.BuyerProfile `json:"customer,omitempty"`
}

// DirectSaleRequest is the body for an immediate cash/card sale.
type DirectSaleRequest struct {
	StoreOwner    string              `json:"storeOwner"`
	Products      []SaleProduct       `json:"products"`
	TotalSum      types.Decimal       `json:"totalSum"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
}

// InstallmentSaleRequest is the body for a deferred-payment sale with buyer
// KYC data.
type InstallmentSaleRequest struct {
	Products                  []SaleProduct         `json:"products"`
	StoreOwner                string                `json:"storeOwner"`
	PaymentMethod             enums.PaymentMethod   `json:"paymentMethod"`
	InstallmentDurationMonths int                   `json:"installmentDurationMonths"`
	StartDate                 time.Time             `json:"startDate"`
	Customer                  *session.BuyerProfile `json:"customer"`
}

// OrderRecord is the minimal order payload the client reads back after a
// finalization; the backend remains the system of record.
type OrderRecord struct {
	ID             string              `json:"_id"`
	SequenceNumber int64               `json:"sequenceNumber"`
	TotalSum       types.Decimal       `json:"totalSum"`
	PaymentMethod  enums.PaymentMethod `json:"paymentMethod"`
}

type confirmPayload struct {
	Message string `json:"message"`
}
