package finalize

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sardorqobilov/fieldsale-client/internal/backend"
	"github.com/sardorqobilov/fieldsale-client/internal/cart"
	"github.com/sardorqobilov/fieldsale-client/internal/products"
	"github.com/sardorqobilov/fieldsale-client/internal/session"
	"github.com/sardorqobilov/fieldsale-client/pkg/enums"
	pkgerrors "github.com/sardorqobilov/fieldsale-client/pkg/errors"
	"github.com/sardorqobilov/fieldsale-client/pkg/logger"
	"github.com/sardorqobilov/fieldsale-client/pkg/types"
)

type stubPlacer struct {
	directReq      *backend.DirectSaleRequest
	installmentReq *backend.InstallmentSaleRequest
	confirmID      string
	confirmReq     *backend.ConfirmDraftRequest

	directErr      error
	installmentErr error
	confirmErr     error
}

func (s *stubPlacer) CreateDirectSale(ctx context.Context, req backend.DirectSaleRequest) (*backend.OrderRecord, error) {
	if s.directErr != nil {
		return nil, s.directErr
	}
	s.directReq = &req
	return &backend.OrderRecord{ID: "o-1", TotalSum: req.TotalSum, PaymentMethod: req.PaymentMethod}, nil
}

func (s *stubPlacer) CreateInstallmentSale(ctx context.Context, req backend.InstallmentSaleRequest) (*backend.OrderRecord, error) {
	if s.installmentErr != nil {
		return nil, s.installmentErr
	}
	s.installmentReq = &req
	return &backend.OrderRecord{ID: "o-2", PaymentMethod: req.PaymentMethod}, nil
}

func (s *stubPlacer) ConfirmDraft(ctx context.Context, draftID string, req backend.ConfirmDraftRequest) (string, error) {
	if s.confirmErr != nil {
		return "", s.confirmErr
	}
	s.confirmID = draftID
	s.confirmReq = &req
	return "Order #42 confirmed", nil
}

type stubActors struct {
	id  string
	err error
}

func (s stubActors) ActorID() (string, error) { return s.id, s.err }

type stubRefresher struct{ calls int }

func (s *stubRefresher) List(ctx context.Context) ([]backend.DraftOrder, error) {
	s.calls++
	return nil, nil
}

var fixedNow = time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, placer *stubPlacer, drafts draftRefresher) *Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(placer, stubActors{id: "u1"}, drafts, logg, Options{
		Now: func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func filledCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New()
	err := c.AddOrIncrement(products.Product{
		ID:             "p1",
		Name:           "Rice",
		Price:          types.DecimalFromFloat(10000),
		AvailableStock: types.DecimalFromFloat(50),
		Unit:           "kg",
		UnitSize:       types.DecimalFromFloat(1),
		ShopID:         "shop-1",
	}, types.DecimalFromFloat(2))
	if err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	return c
}

func validProfile() *session.BuyerProfile {
	return &session.BuyerProfile{FullName: "Anvar Karimov", PrimaryPhone: "+998901112233"}
}

func TestFinalizeDirectEmptyCart(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{}
	svc := newTestService(t, placer, nil)

	_, err := svc.FinalizeDirect(context.Background(), cart.New(), session.New())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeEmptyCart {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if placer.directReq != nil {
		t.Fatal("no request may be issued for an empty cart")
	}
}

func TestFinalizeDirectCash(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{}
	svc := newTestService(t, placer, nil)
	c := filledCart(t)
	sess := session.New()

	order, err := svc.FinalizeDirect(context.Background(), c, sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "o-1" {
		t.Fatalf("unexpected order: %+v", order)
	}
	req := placer.directReq
	if req == nil {
		t.Fatal("expected direct sale request")
	}
	if req.PaymentMethod != enums.PaymentMethodCash {
		t.Fatalf("expected cash, got %s", req.PaymentMethod)
	}
	if req.StoreOwner != "u1" {
		t.Fatalf("unexpected store owner %q", req.StoreOwner)
	}
	if req.TotalSum.String() != "20000" {
		t.Fatalf("unexpected total %s", req.TotalSum)
	}
	if !c.IsEmpty() {
		t.Fatal("cart must clear after a successful sale")
	}
}

func TestFinalizeDirectCardKeepsMethodInPayload(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{}
	svc := newTestService(t, placer, nil)
	sess := session.New()
	sess.SetPaymentMethod(enums.PaymentMethodCard)

	if _, err := svc.FinalizeDirect(context.Background(), filledCart(t), sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if placer.directReq.PaymentMethod != enums.PaymentMethodCard {
		t.Fatalf("expected card, got %s", placer.directReq.PaymentMethod)
	}
	if sess.PaymentMethod() != enums.PaymentMethodCash {
		t.Fatal("payment state must reset to cash after success")
	}
}

func TestFinalizeInstallmentRequiresProfile(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{}
	svc := newTestService(t, placer, nil)
	sess := session.New()
	sess.SetPaymentMethod(enums.PaymentMethodInstallment)

	_, err := svc.FinalizeDirect(context.Background(), filledCart(t), sess)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if placer.installmentReq != nil {
		t.Fatal("no request may go out without a buyer profile")
	}
}

func TestFinalizeInstallmentFillsDefaults(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{}
	svc := newTestService(t, placer, nil)
	c := filledCart(t)
	sess := session.New()
	sess.SetPaymentMethod(enums.PaymentMethodInstallment)
	sess.SetBuyerProfile(validProfile())

	order, err := svc.FinalizeDirect(context.Background(), c, sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "o-2" {
		t.Fatalf("unexpected order: %+v", order)
	}
	req := placer.installmentReq
	if req == nil {
		t.Fatal("expected installment request")
	}
	if req.InstallmentDurationMonths != 6 {
		t.Fatalf("expected default plan of 6 months, got %d", req.InstallmentDurationMonths)
	}
	if !req.StartDate.Equal(fixedNow) {
		t.Fatalf("expected start date %v, got %v", fixedNow, req.StartDate)
	}
	if req.Customer == nil || req.Customer.FullName != "Anvar Karimov" {
		t.Fatalf("unexpected customer %+v", req.Customer)
	}
	if sess.BuyerProfile() != nil {
		t.Fatal("profile must clear after success")
	}
}

func TestFinalizeInstallmentRejectsShortName(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{}
	svc := newTestService(t, placer, nil)
	sess := session.New()
	sess.SetPaymentMethod(enums.PaymentMethodInstallment)
	sess.SetBuyerProfile(&session.BuyerProfile{FullName: "Al", PrimaryPhone: "+998901112233"})

	_, err := svc.FinalizeDirect(context.Background(), filledCart(t), sess)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFinalizeDirectFailureKeepsCartAndState(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{directErr: pkgerrors.New(pkgerrors.CodeNetwork, "offline")}
	svc := newTestService(t, placer, nil)
	c := filledCart(t)
	sess := session.New()
	sess.SetPaymentMethod(enums.PaymentMethodCard)

	_, err := svc.FinalizeDirect(context.Background(), c, sess)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
	if c.IsEmpty() {
		t.Fatal("failed sale must not clear the cart")
	}
	if sess.PaymentMethod() != enums.PaymentMethodCard {
		t.Fatal("failed sale must not reset the payment state")
	}
}

func TestConfirmDraftReadsStateAtCallTime(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{}
	refresher := &stubRefresher{}
	svc := newTestService(t, placer, refresher)
	sess := session.New()
	// the method is flipped after the draft is picked, as in a dialog where
	// the user changes the selector just before confirming
	sess.SetPaymentMethod(enums.PaymentMethodCard)

	message, err := svc.ConfirmDraft(context.Background(), backend.DraftOrder{ID: "d-1"}, cart.New(), sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if message != "Order #42 confirmed" {
		t.Fatalf("unexpected message %q", message)
	}
	if placer.confirmID != "d-1" {
		t.Fatalf("unexpected draft id %q", placer.confirmID)
	}
	if placer.confirmReq.PaymentMethod != enums.PaymentMethodCard {
		t.Fatalf("expected card, got %s", placer.confirmReq.PaymentMethod)
	}
	if placer.confirmReq.Status != enums.DraftStatusCompleted {
		t.Fatalf("expected completed status, got %s", placer.confirmReq.Status)
	}
	if refresher.calls != 1 {
		t.Fatalf("expected one list refresh, got %d", refresher.calls)
	}
}

func TestConfirmDraftProfileForcesInstallment(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{}
	svc := newTestService(t, placer, nil)
	sess := session.New()
	sess.SetPaymentMethod(enums.PaymentMethodCash)
	sess.SetBuyerProfile(validProfile())

	if _, err := svc.ConfirmDraft(context.Background(), backend.DraftOrder{ID: "d-2"}, cart.New(), sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := placer.confirmReq
	if req.PaymentMethod != enums.PaymentMethodInstallment {
		t.Fatalf("a present profile must force installment, got %s", req.PaymentMethod)
	}
	if req.Customer == nil || req.InstallmentDurationMonths != 6 || req.StartDate == nil {
		t.Fatalf("installment fields must be filled: %+v", req)
	}
}

func TestConfirmDraftStoreOwnerPreference(t *testing.T) {
	t.Parallel()

	draft := backend.DraftOrder{
		ID: "d-3",
		Products: []backend.DraftProduct{
			{Product: types.ProductRef{ID: "p9", ShopID: "shop-draft"}},
		},
	}

	t.Run("cart line wins", func(t *testing.T) {
		placer := &stubPlacer{}
		svc := newTestService(t, placer, nil)
		if _, err := svc.ConfirmDraft(context.Background(), draft, filledCart(t), session.New()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if placer.confirmReq.StoreOwner != "shop-1" {
			t.Fatalf("expected cart shop, got %q", placer.confirmReq.StoreOwner)
		}
	})

	t.Run("only the first cart line is consulted", func(t *testing.T) {
		placer := &stubPlacer{}
		svc := newTestService(t, placer, nil)
		c := cart.New()
		noShop := flowProduct()
		noShop.ID = "p0"
		noShop.ShopID = ""
		if err := c.AddOrIncrement(noShop, types.DecimalFromFloat(1)); err != nil {
			t.Fatalf("seed cart: %v", err)
		}
		withShop := flowProduct()
		withShop.ID = "p2"
		withShop.ShopID = "shop-2"
		if err := c.AddOrIncrement(withShop, types.DecimalFromFloat(1)); err != nil {
			t.Fatalf("seed cart: %v", err)
		}

		if _, err := svc.ConfirmDraft(context.Background(), draft, c, session.New()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// the first line has no shop id, so the draft's first product wins
		// over the second cart line
		if placer.confirmReq.StoreOwner != "shop-draft" {
			t.Fatalf("expected draft shop, got %q", placer.confirmReq.StoreOwner)
		}
	})

	t.Run("then draft product", func(t *testing.T) {
		placer := &stubPlacer{}
		svc := newTestService(t, placer, nil)
		if _, err := svc.ConfirmDraft(context.Background(), draft, cart.New(), session.New()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if placer.confirmReq.StoreOwner != "shop-draft" {
			t.Fatalf("expected draft shop, got %q", placer.confirmReq.StoreOwner)
		}
	})

	t.Run("then acting agent", func(t *testing.T) {
		placer := &stubPlacer{}
		svc := newTestService(t, placer, nil)
		if _, err := svc.ConfirmDraft(context.Background(), backend.DraftOrder{ID: "d-4"}, cart.New(), session.New()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if placer.confirmReq.StoreOwner != "u1" {
			t.Fatalf("expected agent id, got %q", placer.confirmReq.StoreOwner)
		}
	})
}

func TestConfirmDraftFailurePreservesState(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{confirmErr: pkgerrors.New(pkgerrors.CodeServer, "boom")}
	refresher := &stubRefresher{}
	svc := newTestService(t, placer, refresher)
	sess := session.New()
	sess.SetPaymentMethod(enums.PaymentMethodInstallment)
	sess.SetBuyerProfile(validProfile())

	_, err := svc.ConfirmDraft(context.Background(), backend.DraftOrder{ID: "d-5"}, cart.New(), sess)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeServer {
		t.Fatalf("expected server error, got %v", err)
	}
	if sess.BuyerProfile() == nil {
		t.Fatal("failed confirmation must not drop the profile")
	}
	if refresher.calls != 0 {
		t.Fatal("failed confirmation must not refresh the list")
	}
}
