package confirm

import (
	"context"
	"fmt"
	"sync"

	"github.com/sardorqobilov/fieldsale-client/internal/session"
	pkgerrors "github.com/sardorqobilov/fieldsale-client/pkg/errors"
	"github.com/sardorqobilov/fieldsale-client/pkg/logger"
	"github.com/sardorqobilov/fieldsale-client/pkg/notify"
)

// State is the orchestrator's dialog phase.
type State string

const (
	StateIdle       State = "idle"
	StateOpen       State = "open"
	StateCommitting State = "committing"
)

// Action is the operation a pending confirmation will run when the user
// confirms. It returns the success message surfaced to the agent.
type Action func(ctx context.Context) (string, error)

// Pending describes the confirmation currently shown.
type Pending struct {
	Prompt string
	action Action
}

// Orchestrator is the single-instance "are you sure" workflow shared by
// draft confirm, direct sale, draft delete and cancel-sale. It does not know
// which operation is bound; callers close over the right one. The bound
// action runs only from the Open state, and it reads payment state through
// the session at commit time, never from values captured when the dialog
// opened.
type Orchestrator struct {
	sess     *session.SaleSession
	notifier notify.Notifier
	logg     *logger.Logger

	mu      sync.Mutex
	state   State
	pending *Pending
}

// NewOrchestrator builds the dialog workflow. The notifier may be nil, in
// which case outcomes are only logged.
func NewOrchestrator(sess *session.SaleSession, notifier notify.Notifier, logg *logger.Logger) (*Orchestrator, error) {
	if sess == nil {
		return nil, fmt.Errorf("session required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Orchestrator{
		sess:     sess,
		notifier: notifier,
		logg:     logg,
		state:    StateIdle,
	}, nil
}

// State reports the current dialog phase.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Current returns the pending confirmation, if any.
func (o *Orchestrator) Current() (Pending, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pending == nil {
		return Pending{}, false
	}
	return *o.pending, true
}

// Request opens a confirmation for the given action. Only one confirmation
// may be open at a time; a second request is refused rather than queued or
// stacked.
func (o *Orchestrator) Request(ctx context.Context, prompt string, action Action) error {
	if action == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "confirmation without an action")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateIdle {
		return pkgerrors.New(pkgerrors.CodeValidation, "a confirmation is already open")
	}
	o.state = StateOpen
	o.pending = &Pending{Prompt: prompt, action: action}
	o.logg.Info(o.logg.WithField(ctx, "prompt", prompt), "confirmation opened")
	return nil
}

// Confirm runs the bound action. The dialog moves to Committing for the
// duration, so a second press is refused instead of firing the action twice.
// Whatever the outcome, the dialog closes and the payment selection is
// cleared under the retention rule.
func (o *Orchestrator) Confirm(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StateOpen {
		state := o.state
		o.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("nothing to confirm in state %s", state))
	}
	o.state = StateCommitting
	action := o.pending.action
	o.mu.Unlock()

	// the dialog lock is released here so State/Current stay readable while
	// the action performs network i/o
	message, err := action(ctx)

	o.mu.Lock()
	o.state = StateIdle
	o.pending = nil
	o.mu.Unlock()

	o.sess.CloseRetainingProfile()

	if err != nil {
		o.logg.Error(ctx, "confirmation failed", err)
		o.emit(ctx, notify.FromError(err))
		return err
	}
	if message == "" {
		message = "Done"
	}
	o.emit(ctx, notify.Success(message))
	return nil
}

// Cancel closes the dialog without running the action, applying the same
// retention rule as a completed commit.
func (o *Orchestrator) Cancel(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StateOpen {
		state := o.state
		o.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("nothing to cancel in state %s", state))
	}
	o.state = StateIdle
	o.pending = nil
	o.mu.Unlock()

	o.sess.CloseRetainingProfile()
	o.logg.Info(ctx, "confirmation cancelled")
	return nil
}

func (o *Orchestrator) emit(ctx context.Context, n notify.Notification) {
	if o.notifier == nil {
		return
	}
	o.notifier.Notify(ctx, n)
}
