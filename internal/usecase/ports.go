package usecase

import "context"

// TxRunner executes fn inside one atomic transaction against the backing
// store. A non-nil error from fn rolls back every write issued through the
// transaction-aware repositories within.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Authorizer is the external role/assignment collaborator. The core only
// consumes its yes/no answer and fails closed when it cannot be reached.
type Authorizer interface {
	CanManageClub(ctx context.Context, actorID, clubID string) (bool, error)
}

// Notification describes one accepted mutation for external broadcast.
// Delivery is best-effort; failures never affect the mutation outcome.
type Notification struct {
	MatchID string
	Kind    string
	Payload any
}

// Notifier hands accepted mutations to the broadcast layer.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

const (
	NotifyMatchCreated          = "match.created"
	NotifyMatchTransitioned     = "match.transitioned"
	NotifyMatchUpdated          = "match.updated"
	NotifyMatchDeleted          = "match.deleted"
	NotifyRosterReplaced        = "roster.replaced"
	NotifyRosterEntryUpdated    = "roster.entry_updated"
	NotifySubstitutionCreated   = "substitution.created"
	NotifySubstitutionRetracted = "substitution.retracted"
	NotifyShotCreated           = "shot.created"
	NotifyShotUpdated           = "shot.updated"
	NotifyShotDeleted           = "shot.deleted"
	NotifyGameEventCreated      = "game_event.created"
)

// passthroughTx is used where no transactional store is configured; the
// memory repositories apply each write atomically on their own.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// NewPassthroughTxRunner returns a TxRunner that simply invokes fn.
func NewPassthroughTxRunner() TxRunner {
	return passthroughTx{}
}

// AllowAllAuthorizer grants every request; wired when the deployment has no
// authorization collaborator (demo mode, tests).
type AllowAllAuthorizer struct{}

func (AllowAllAuthorizer) CanManageClub(context.Context, string, string) (bool, error) {
	return true, nil
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) {}

// NewNopNotifier returns a Notifier that drops everything.
func NewNopNotifier() Notifier {
	return nopNotifier{}
}
