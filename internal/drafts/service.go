package drafts

import (
	"context"
	"fmt"
	"sync"

	"github.com/sardorqobilov/fieldsale-client/internal/backend"
	"github.com/sardorqobilov/fieldsale-client/internal/cart"
	"github.com/sardorqobilov/fieldsale-client/internal/products"
	"github.com/sardorqobilov/fieldsale-client/internal/session"
	pkgerrors "github.com/sardorqobilov/fieldsale-client/pkg/errors"
	"github.com/sardorqobilov/fieldsale-client/pkg/logger"
)

type draftStore interface {
	ListDrafts(ctx context.Context) ([]backend.DraftOrder, error)
	CreateDraft(ctx context.Context, req backend.SaveDraftRequest) (*backend.DraftOrder, error)
	UpdateDraft(ctx context.Context, draftID string, req backend.SaveDraftRequest) (*backend.DraftOrder, error)
	DeleteDraft(ctx context.Context, draftID string) error
}

type productLoader interface {
	GetProduct(ctx context.Context, productID string) (*products.Product, error)
}

type actorSource interface {
	ActorID() (string, error)
}

// Service maps the working cart onto the backend's draft resource. It keeps a
// read-through cache of the agent's drafts; the backend stays authoritative
// for every status transition.
type Service struct {
	store  draftStore
	loader productLoader
	actors actorSource
	logg   *logger.Logger

	mu     sync.Mutex
	cached []backend.DraftOrder
}

// NewService builds the draft lifecycle service.
func NewService(store draftStore, loader productLoader, actors actorSource, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("draft store required")
	}
	if loader == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if actors == nil {
		return nil, fmt.Errorf("actor source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{store: store, loader: loader, actors: actors, logg: logg}, nil
}

// List fetches the agent's drafts and refreshes the cache.
func (s *Service) List(ctx context.Context) ([]backend.DraftOrder, error) {
	drafts, err := s.store.ListDrafts(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cached = drafts
	s.mu.Unlock()
	return drafts, nil
}

// Cached returns the last fetched draft list without a network round trip.
func (s *Service) Cached() []backend.DraftOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.DraftOrder, len(s.cached))
	copy(out, s.cached)
	return out
}

// Save serializes the cart to the draft wire shape and creates a new draft,
// or updates the one being edited. On success the cart empties, the editing
// pointer clears, and the cached list refreshes.
func (s *Service) Save(ctx context.Context, c *cart.Cart, sess *session.SaleSession) (*backend.DraftOrder, error) {
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot save an empty cart")
	}

	payload, err := buildSaleProducts(c)
	if err != nil {
		return nil, err
	}

	actorID, err := s.actors.ActorID()
	if err != nil {
		return nil, err
	}

	req := backend.SaveDraftRequest{
		StoreOwner: actorID,
		Products:   payload,
		TotalSum:   c.Total(),
	}

	editingID := sess.EditingDraftID()
	var saved *backend.DraftOrder
	if editingID == "" {
		saved, err = s.store.CreateDraft(ctx, req)
	} else {
		saved, err = s.store.UpdateDraft(ctx, editingID, req)
	}
	if err != nil {
		return nil, err
	}

	c.Clear()
	sess.ClearEditingDraft()
	s.refresh(ctx)
	return saved, nil
}

// LoadForEdit re-fetches every referenced product so editing works against
// live price and stock, then replaces the cart with the draft's lines. A
// single failed fetch only skips that line; a draft with nothing loadable is
// refused and the current cart stays untouched.
func (s *Service) LoadForEdit(ctx context.Context, draft backend.DraftOrder, c *cart.Cart, sess *session.SaleSession) (skipped int, err error) {
	if len(draft.Products) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeEmptyCart, "draft has no products")
	}

	lines := make([]cart.DraftLine, 0, len(draft.Products))
	for _, row := range draft.Products {
		if !row.Product.Resolvable() {
			skipped++
			continue
		}
		fresh, fetchErr := s.loader.GetProduct(ctx, row.Product.ID)
		if fetchErr != nil {
			s.logg.Warn(s.logg.WithDraftID(ctx, draft.ID), fmt.Sprintf("skipping product %s: %v", row.Product.ID, fetchErr))
			skipped++
			continue
		}
		lines = append(lines, cart.DraftLine{Ref: fresh.Ref(), Quantity: row.Quantity})
	}

	if len(lines) == 0 {
		return skipped, pkgerrors.New(pkgerrors.CodeNoValidProducts, "no draft product could be loaded")
	}

	more, err := c.LoadFrom(lines)
	skipped += more
	if err != nil {
		return skipped, err
	}

	sess.SetEditingDraft(draft.ID)
	return skipped, nil
}

// Delete removes the draft. When the cart is a working copy of that draft it
// is cleared too, keeping cart and backend in sync.
func (s *Service) Delete(ctx context.Context, draftID string, c *cart.Cart, sess *session.SaleSession) error {
	if err := s.store.DeleteDraft(ctx, draftID); err != nil {
		return err
	}
	if sess.EditingDraftID() == draftID {
		c.Clear()
		sess.ClearEditingDraft()
	}
	s.refresh(ctx)
	return nil
}

// refresh re-fetches the cached list after a mutation. The mutation already
// succeeded, so a refresh failure is logged and swallowed.
func (s *Service) refresh(ctx context.Context) {
	if _, err := s.List(ctx); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("draft list refresh failed: %v", err))
	}
}

func buildSaleProducts(c *cart.Cart) ([]backend.SaleProduct, error) {
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
