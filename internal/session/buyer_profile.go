package session

import "time"

// BuyerProfile is the KYC data captured when a sale is finalized as an
// installment plan. It is required for installment and ignored otherwise.
type BuyerProfile struct {
	FullName                  string    `json:"fullName" validate:"required,min=3"`
	PrimaryPhone              string    `json:"phone" validate:"required,min=7"`
	PassportSeries            string    `json:"passportSeries,omitempty"`
	Photo                     string    `json:"photo,omitempty"`
	InstallmentDurationMonths int       `json:"installmentDurationMonths,omitempty" validate:"omitempty,min=1,max=36"`
	StartDate                 time.Time `json:"startDate,omitempty"`
}

// Clone returns an independent copy so callers cannot mutate session state
// through a returned pointer.
func (b *BuyerProfile) Clone() *BuyerProfile {
	if b == nil {
		return nil
	}
	copy := *b
	return &copy
}
