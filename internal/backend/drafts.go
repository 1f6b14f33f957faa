package backend

import (
	"context"
	"net/http"
	"net/url"
)

// ListDrafts fetches every draft owned by the current actor. An absent data
// payload normalizes to an empty list.
func (c *Client) ListDrafts(ctx context.Context) ([]DraftOrder, error) {
	var drafts []DraftOrder
	if err := c.do(ctx, "list_drafts", http.MethodGet, "/drafts", nil, &drafts); err != nil {
		return nil, err
	}
	if drafts == nil {
		drafts = []DraftOrder{}
	}
	return drafts, nil
}

// CreateDraft persists a new draft snapshot.
func (c *Client) CreateDraft(ctx context.Context, req SaveDraftRequest) (*DraftOrder, error) {
	var draft DraftOrder
	if err := c.do(ctx, "create_draft", http.MethodPost, "/drafts", req, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// UpdateDraft re-saves an existing draft.
func (c *Client) UpdateDraft(ctx context.Context, draftID string, req SaveDraftRequest) (*DraftOrder, error) {
	var draft DraftOrder
	if err := c.do(ctx, "update_draft", http.MethodPut, "/drafts/"+url.PathEscape(draftID), req, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// DeleteDraft removes a draft permanently.
func (c *Client) DeleteDraft(ctx context.Context, draftID string) error {
	return c.do(ctx, "delete_draft", http.MethodDelete, "/drafts/"+url.PathEscape(draftID), nil, nil)
}

// ConfirmDraft transitions a draft to completed. The status flip is
// authoritative on the backend; the caller refreshes the list afterwards.
func (c *Client) ConfirmDraft(ctx context.Context, draftID string, req ConfirmDraftRequest) (string, error) {
	var payload confirmPayload
	key := c.NewIdempotencyKey("confirm")
	err := c.do(ctx, "confirm_draft", http.MethodPost, "/drafts/"+url.PathEscape(draftID)+"/confirm", req, &payload, WithIdempotencyKey(key))
	if err != nil {
		return "", err
	}
	return payload.Message, nil
}
