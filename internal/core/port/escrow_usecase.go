package port

import (
	"context"
	"errors"

	"billboard-escrow/internal/core/domain"
)

// ErrMissingCreator is returned when campaign creation names no creator.
var ErrMissingCreator = errors.New("creator identity is required")

// CreateCampaignReq carries the sponsor-supplied inputs for campaign
// creation. The sponsor identity itself comes from the authenticated caller.
type CreateCampaignReq struct {
	CampaignID uint64
	Creator    string
	Amount     uint64
	Duration   uint64
}

// ActionResult reports the outcome of one committed lifecycle action. It is a
// DTO used by the HTTP layer and carries only the fields the action produced.
type ActionResult struct {
	CampaignID uint64
	State      domain.State
	Released   uint64 // amount moved out of the vault, zero when no funds moved
	Recipient  string // set when Released applies
	StartTS    int64  // set by the live transition
	EndTS      int64
}

// CampaignDetail bundles a campaign with its vault for read endpoints.
type CampaignDetail struct {
	Campaign domain.Campaign
	Vault    domain.Vault
}

// EscrowUseCase is the inbound port: the full action catalog of the campaign
// lifecycle. Every method authorizes caller against the role the action
// requires before touching any state; guard failures abort with the matching
// domain sentinel and no side effect.
type EscrowUseCase interface {
	// CreateCampaign records a new campaign and escrows req.Amount from
	// the caller (the sponsor) into the campaign's vault.
	CreateCampaign(ctx context.Context, caller string, req CreateCampaignReq) (*ActionResult, error)

	// CreatorAccept moves a deposited campaign to approved. Creator only.
	CreatorAccept(ctx context.Context, caller string, campaignID uint64) (*ActionResult, error)

	// CreatorReject terminates a deposited campaign and refunds the full
	// escrow to recipient, which must be the recorded sponsor. Creator only.
	CreatorReject(ctx context.Context, caller string, campaignID uint64, recipient string) (*ActionResult, error)

	// SetVerifying moves an approved campaign to verifying. Platform only.
	SetVerifying(ctx context.Context, caller string, campaignID uint64) (*ActionResult, error)

	// SetLive moves a verifying campaign to live and pins its schedule.
	// Platform only; endTS must be after startTS.
	SetLive(ctx context.Context, caller string, campaignID uint64, startTS, endTS int64) (*ActionResult, error)

	// SetExpired moves a live campaign to expired once the clock reaches
	// end_ts. Platform only.
	SetExpired(ctx context.Context, caller string, campaignID uint64) (*ActionResult, error)

	// HardCancel terminates a campaign from any non-terminal, non-expired
	// state and refunds the full escrow to recipient, which must be the
	// recorded sponsor. Platform only.
	HardCancel(ctx context.Context, caller string, campaignID uint64, recipient string) (*ActionResult, error)

	// CreatorClaim pays the full escrow of an expired campaign out to the
	// creator. Creator only.
	CreatorClaim(ctx context.Context, caller string, campaignID uint64) (*ActionResult, error)

	// GetCampaign returns the campaign and its vault.
	GetCampaign(ctx context.Context, campaignID uint64) (*CampaignDetail, error)

	// ListEvents returns the campaign's event history in commit order.
	ListEvents(ctx context.Context, campaignID uint64) ([]domain.Event, error)
}
