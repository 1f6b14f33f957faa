package finalize

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sardorqobilov/fieldsale-client/internal/backend"
	"github.com/sardorqobilov/fieldsale-client/internal/cart"
	"github.com/sardorqobilov/fieldsale-client/internal/session"
	"github.com/sardorqobilov/fieldsale-client/pkg/enums"
	pkgerrors "github.com/sardorqobilov/fieldsale-client/pkg/errors"
	"github.com/sardorqobilov/fieldsale-client/pkg/logger"
)

type orderPlacer interface {
	CreateDirectSale(ctx context.Context, req backend.DirectSaleRequest) (*backend.OrderRecord, error)
	CreateInstallmentSale(ctx context.Context, req backend.InstallmentSaleRequest) (*backend.OrderRecord, error)
	ConfirmDraft(ctx context.Context, draftID string, req backend.ConfirmDraftRequest) (string, error)
}

type actorSource interface {
	ActorID() (string, error)
}

type draftRefresher interface {
	List(ctx context.Context) ([]backend.DraftOrder, error)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Options tunes finalization defaults.
type Options struct {
	// DefaultInstallmentMonths fills the plan length when the buyer profile
	// does not carry one. Zero falls back to 6.
	DefaultInstallmentMonths int

	// Now stubs the clock in tests.
	Now func() time.Time
}

// Service turns a composed cart into an immutable backend order, either
// directly or by confirming a persisted draft. It never flips order state
// locally; the backend response is the only source of truth.
type Service struct {
	orders  orderPlacer
	actors  actorSource
	drafts  draftRefresher
	logg    *logger.Logger
	months  int
	nowFunc func() time.Time
}

// NewService builds the finalization service. The draft refresher is
// optional; without it a confirmed draft simply stays in the stale cache
// until the next list.
func NewService(orders orderPlacer, actors actorSource, drafts draftRefresher, logg *logger.Logger, opts Options) (*Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order placer required")
	}
	if actors == nil {
		return nil, fmt.Errorf("actor source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	months := opts.DefaultInstallmentMonths
	if months <= 0 {
		months = 6
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		orders:  orders,
		actors:  actors,
		drafts:  drafts,
		logg:    logg,
		months:  months,
		nowFunc: now,
	}, nil
}

// FinalizeDirect submits the cart as an order using the payment state read
// from the session at call time. Cash and card go to the direct-sale
// endpoint; installment requires a buyer profile and goes to the installment
// endpoint with the schedule filled in. On success the cart empties and the
// payment state resets.
func (s *Service) FinalizeDirect(ctx context.Context, c *cart.Cart, sess *session.SaleSession) (*backend.OrderRecord, error) {
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "nothing to finalize")
	}

	payload, err := saleProducts(c)
	if err != nil {
		return nil, err
	}

	actorID, err := s.actors.ActorID()
	if err != nil {
		return nil, err
	}

	state := sess.PaymentState()
	ctx = s.logg.WithOperation(s.logg.WithActorID(ctx, actorID), "finalize_direct")

	var order *backend.OrderRecord
	if state.Method == enums.PaymentMethodInstallment {
		profile, perr := s.installmentProfile(state.Profile)
		if perr != nil {
			return nil, perr
		}
		order, err = s.orders.CreateInstallmentSale(ctx, backend.InstallmentSaleRequest{
			Products:                  payload,
			StoreOwner:                actorID,
			PaymentMethod:             enums.PaymentMethodInstallment,
			InstallmentDurationMonths: profile.InstallmentDurationMonths,
			StartDate:                 profile.StartDate,
			Customer:                  profile,
		})
	} else {
		order, err = s.orders.CreateDirectSale(ctx, backend.DirectSaleRequest{
			StoreOwner:    actorID,
			Products:      payload,
			TotalSum:      c.Total(),
			PaymentMethod: state.Method,
		})
	}
	if err != nil {
		return nil, err
	}

	s.logg.Info(ctx, fmt.Sprintf("order %s finalized", order.ID))
	c.Clear()
	sess.ResetPayment()
	return order, nil
}

// ConfirmDraft finalizes a persisted draft with the payment state read from
// the session at call time. The store owner is taken from the cart's first
// line when the cart is a working copy, then from the draft's first product,
// then from the acting agent.
func (s *Service) ConfirmDraft(ctx context.Context, draft backend.DraftOrder, c *cart.Cart, sess *session.SaleSession) (string, error) {
	actorID, err := s.actors.ActorID()
	if err != nil {
		return "", err
	}

	state := sess.PaymentState()
	method := state.Method
	// TODO(sardor): confirm with the backend team whether a lingering buyer
	// profile should force installment here, or be discarded for cash/card.
	if state.Profile != nil {
		method = enums.PaymentMethodInstallment
	}

	req := backend.ConfirmDraftRequest{
		PaymentMethod: method,
		Status:        enums.DraftStatusCompleted,
		StoreOwner:    storeOwner(c, draft, actorID),
	}
	if method == enums.PaymentMethodInstallment {
		profile, perr := s.installmentProfile(state.Profile)
		if perr != nil {
			return "", perr
		}
		req.InstallmentDurationMonths = profile.InstallmentDurationMonths
		req.StartDate = &profile.StartDate
		req.Customer = profile
	}

	ctx = s.logg.WithOperation(s.logg.WithDraftID(s.logg.WithActorID(ctx, actorID), draft.ID), "confirm_draft")
	message, err := s.orders.ConfirmDraft(ctx, draft.ID, req)
	if err != nil {
		return "", err
	}

	s.logg.Info(ctx, "draft confirmed")
	if s.drafts != nil {
		if _, lerr := s.drafts.List(ctx); lerr != nil {
			s.logg.Warn(ctx, fmt.Sprintf("draft list refresh failed: %v", lerr))
		}
	}
	sess.ResetPayment()
	return message, nil
}

// installmentProfile validates the buyer profile and fills schedule defaults
// on an independent copy.
func (s *Service) installmentProfile(profile *session.BuyerProfile) (*session.BuyerProfile, error) {
	if profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "installment requires buyer details")
	}
	filled := profile.Clone()
	if filled.InstallmentDurationMonths <= 0 {
		filled.InstallmentDurationMonths = s.months
	}
	if filled.StartDate.IsZero() {
		filled.StartDate = s.nowFunc()
	}
	if err := validate.Struct(filled); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			details := map[string]string{}
			for _, fieldErr := range errs {
				details[fieldErr.Field()] = fieldErr.Tag()
			}
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer details are incomplete").WithDetails(details)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "buyer details are incomplete")
	}
	return filled, nil
}

// storeOwner picks the owner id for a confirmation: the cart's first line
// wins, then the draft's first product, then the agent's own id. Only the
// first element of each source is consulted; a first line without a shop id
// falls through to the next source.
func storeOwner(c *cart.Cart, draft backend.DraftOrder, actorID string) string {
	if c != nil {
		if items := c.Items(); len(items) > 0 && items[0].Product.ShopID != "" {
			return items[0].Product.ShopID
		}
	}
	if len(draft.Products) > 0 && draft.Products[0].Product.ShopID != "" {
		return draft.Products[0].Product.ShopID
	}
	return actorID
}

func saleProducts(c *cart.Cart) ([]backend.SaleProduct, error) {
	items := c.Items()
	payload := make([]backend.SaleProduct, 0, len(items))
	for _, item := range items {
		if !item.Product.Valid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart line has no resolvable product id")
		}
		payload = append(payload, backend.SaleProduct{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
			Unit:      item.Product.Unit,
			UnitSize:  item.Product.UnitSize,
		})
	}
	return payload, nil
}
