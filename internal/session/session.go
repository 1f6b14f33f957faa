package session

import (
	"sync"

	"github.com/sardorqobilov/fieldsale-client/internal/cart"
	"github.com/sardorqobilov/fieldsale-client/internal/products"
	"github.com/sardorqobilov/fieldsale-client/pkg/enums"
	"github.com/sardorqobilov/fieldsale-client/pkg/types"
)

// SaleSession is the explicit state of the sale being composed: payment
// method, buyer profile, which draft (if any) the cart is a working copy of,
// and the pending product selection. Engine operations receive it instead of
// reading ambient globals, and every getter returns the latest value under
// the lock, so a commit handler fired from a dialog always observes the state
// as last set by the user rather than a value captured when the dialog opened.
type SaleSession struct {
	mu sync.Mutex

	paymentMethod  enums.PaymentMethod
	buyerProfile   *BuyerProfile
	editingDraftID string

	selectedProduct  *products.Product
	selectedQuantity types.Decimal
}

// PaymentState is the committed pair a finalization reads at commit time.
type PaymentState struct {
	Method  enums.PaymentMethod
	Profile *BuyerProfile
}

func New() *SaleSession {
	return &SaleSession{paymentMethod: enums.PaymentMethodCash}
}

func (s *SaleSession) SetPaymentMethod(method enums.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if method.IsValid() {
		s.paymentMethod = method
	}
}

func (s *SaleSession) PaymentMethod() enums.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paymentMethod
}

func (s *SaleSession) SetBuyerProfile(profile *BuyerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buyerProfile = profile.Clone()
}

func (s *SaleSession) BuyerProfile() *BuyerProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buyerProfile.Clone()
}

// PaymentState reads method and profile together under one lock acquisition.
func (s *SaleSession) PaymentState() PaymentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PaymentState{Method: s.paymentMethod, Profile: s.buyerProfile.Clone()}
}

// ResetPayment returns the payment state to cash with no profile. Used after
// a successful finalization.
func (s *SaleSession) ResetPayment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentMethod = enums.PaymentMethodCash
	s.buyerProfile = nil
}

// CloseRetainingProfile applies the dialog-close rule: the selection is
// cleared unless the method is installment and a profile was already entered,
// in which case both are kept so the agent can reopen without re-typing the
// buyer's data.
func (s *SaleSession) CloseRetainingProfile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paymentMethod == enums.PaymentMethodInstallment && s.buyerProfile != nil {
		return
	}
	s.paymentMethod = enums.PaymentMethodCash
	s.buyerProfile = nil
}

func (s *SaleSession) SetEditingDraft(draftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingDraftID = draftID
}

func (s *SaleSession) EditingDraftID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingDraftID
}

func (s *SaleSession) ClearEditingDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingDraftID = ""
}

// SetSelection stages the product and quantity the agent is about to add.
func (s *SaleSession) SetSelection(product products.Product, quantity types.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := product
	s.selectedProduct = &p
	s.selectedQuantity = quantity
}

func (s *SaleSession) Selection() (products.Product, types.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedProduct == nil {
		return products.Product{}, types.Decimal{}, false
	}
	return *s.selectedProduct, s.selectedQuantity, true
}

func (s *SaleSession) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedProduct = nil
	s.selectedQuantity = types.Decimal{}
}

// AddSelected pushes the staged selection into the cart and, on success,
// clears the selection so the next add starts fresh. A failed add keeps the
// selection so the agent can correct the quantity.
func (s *SaleSession) AddSelected(c *cart.Cart) error {
	product, quantity, ok := s.Selection()
	if !ok {
		return errNoSelection
	}
	if err := c.AddOrIncrement(product, quantity); err != nil {
		return err
	}
	s.ClearSelection()
	return nil
}
