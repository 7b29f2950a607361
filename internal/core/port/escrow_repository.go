package port

import (
	"context"
	"errors"

	"billboard-escrow/internal/core/domain"
)

var (
	// ErrCampaignExists is returned when creating a campaign whose id is
	// already taken.
	ErrCampaignExists = errors.New("campaign already exists")

	// ErrCampaignNotFound is returned when no campaign matches the id.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrAccountNotFound is returned when a referenced account does not
	// exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds is returned when the sponsor's balance cannot
	// cover the requested deposit.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Transition describes one compare-and-set state change. The repository must
// fail with domain.ErrInvalidState when the stored state no longer equals
// From, so a concurrent commit can never be overwritten.
type Transition struct {
	CampaignID uint64
	From       domain.State
	To         domain.State
	StartTS    int64 // only set by the live transition
	EndTS      int64
}

// EscrowRepository is the outbound port for campaign, vault and account
// persistence. Implementations must make each method a single atomic unit:
// the state update, any balance move and the event append commit together or
// not at all, and no method may leave a partial mutation observable.
type EscrowRepository interface {
	// CreateCampaignAndDeposit inserts the campaign in the deposited
	// state, creates its vault with the given reserve floor and a single
	// deposit equal to campaign.Amount, debits the sponsor's account by
	// the same amount and appends the created event.
	CreateCampaignAndDeposit(ctx context.Context, campaign *domain.Campaign, reserve uint64, evt *domain.Event) error

	// GetCampaign returns the campaign or ErrCampaignNotFound.
	GetCampaign(ctx context.Context, id uint64) (*domain.Campaign, error)

	// GetVault returns the campaign's vault or ErrCampaignNotFound.
	GetVault(ctx context.Context, campaignID uint64) (*domain.Vault, error)

	// GetAccount returns the account or ErrAccountNotFound.
	GetAccount(ctx context.Context, address string) (*domain.Account, error)

	// TransitionState applies a state change with no fund movement and
	// appends the event.
	TransitionState(ctx context.Context, tr Transition, evt *domain.Event) error

	// TransitionAndRelease applies a terminal state change, moves the
	// vault's releasable balance to the recipient's account and appends
	// the event. It returns the released amount, which may be zero when
	// the vault holds nothing above its reserve; a zero release is a
	// successful no-op payout, not an error.
	TransitionAndRelease(ctx context.Context, tr Transition, recipient string, evt *domain.Event) (uint64, error)

	// ListEvents returns the campaign's events in commit order.
	ListEvents(ctx context.Context, campaignID uint64) ([]domain.Event, error)
}
