package usecase

import (
	"context"
	"time"

	"billboard-escrow/internal/core/domain"
	"billboard-escrow/internal/core/port"
	"billboard-escrow/internal/metrics"
)

// EscrowService implements port.EscrowUseCase. Per action it runs the
// authorization guard, then the lifecycle precondition, then hands the
// compare-and-set transition (and any fund release) to the repository as one
// atomic unit, and finally records metrics. Guard failures return before the
// repository is asked to mutate anything.
type EscrowService struct {
	repo port.EscrowRepository

	// platformAuthority is the single trusted arbiter identity, injected
	// from configuration at startup.
	platformAuthority string

	// vaultReserve is the floor every new vault must retain, in currency
	// smallest units. It is never released.
	vaultReserve uint64

	metrics *metrics.Metrics

	// now supplies the clock for expiry checks. Tests override it.
	now func() time.Time
}

// NewEscrowService creates the usecase with the provided repository,
// platform authority identity and vault reserve floor.
func NewEscrowService(repo port.EscrowRepository, platformAuthority string, vaultReserve uint64, m *metrics.Metrics) *EscrowService {
	return &EscrowService{
		repo:              repo,
		platformAuthority: platformAuthority,
		vaultReserve:      vaultReserve,
		metrics:           m,
		now:               time.Now,
	}
}

// CreateCampaign records a new campaign and escrows req.Amount from the
// caller into the campaign's vault.
func (s *EscrowService) CreateCampaign(ctx context.Context, caller string, req port.CreateCampaignReq) (*port.ActionResult, error) {
	if req.Creator == "" {
		return nil, port.ErrMissingCreator
	}
	c := domain.NewCampaign(req.CampaignID, caller, req.Creator, req.Amount, req.Duration)

	evt := domain.NewEvent(domain.EventCreated, c.ID)
	evt.Sponsor = c.Sponsor
	evt.Creator = c.Creator
	evt.Amount = c.Amount
	evt.Duration = c.Duration

	if err := s.repo.CreateCampaignAndDeposit(ctx, c, s.vaultReserve, evt); err != nil {
		return nil, s.fail(err)
	}
	s.metrics.ActionCommitted("create")
	return &port.ActionResult{CampaignID: c.ID, State: c.State}, nil
}

// CreatorAccept moves a deposited campaign to approved.
func (s *EscrowService) CreatorAccept(ctx context.Context, caller string, campaignID uint64) (*port.ActionResult, error) {
	c, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if err = s.requireCreator(c, caller); err != nil {
		return nil, s.fail(err)
	}
	from := c.State
	if err = c.Accept(); err != nil {
		return nil, s.fail(err)
	}

	evt := domain.NewEvent(domain.EventAccepted, c.ID)
	evt.Creator = c.Creator

	tr := port.Transition{CampaignID: c.ID, From: from, To: c.State}
	if err = s.repo.TransitionState(ctx, tr, evt); err != nil {
		return nil, s.fail(err)
	}
	s.metrics.ActionCommitted("accept")
	return &port.ActionResult{CampaignID: c.ID, State: c.State}, nil
}

// CreatorReject terminates a deposited campaign and refunds the sponsor.
func (s *EscrowService) CreatorReject(ctx context.Context, caller string, campaignID uint64, recipient string) (*port.ActionResult, error) {
	c, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if err = s.requireCreator(c, caller); err != nil {
		return nil, s.fail(err)
	}
	if recipient != c.Sponsor {
		return nil, s.fail(domain.ErrInvalidRecipient)
	}
	from := c.State
	if err = c.Reject(); err != nil {
		return nil, s.fail(err)
	}

	evt := domain.NewEvent(domain.EventRejected, c.ID)
	evt.Creator = c.Creator

	tr := port.Transition{CampaignID: c.ID, From: from, To: c.State}
	released, err := s.repo.TransitionAndRelease(ctx, tr, recipient, evt)
	if err != nil {
		return nil, s.fail(err)
	}
	s.metrics.ActionCommitted("reject")
	s.metrics.FundsReleased(released)
	return &port.ActionResult{CampaignID: c.ID, State: c.State, Released: released, Recipient: recipient}, nil
}

// SetVerifying moves an approved campaign to verifying.
func (s *EscrowService) SetVerifying(ctx context.Context, caller string, campaignID uint64) (*port.ActionResult, error) {
	c, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if err = s.requirePlatform(caller); err != nil {
		return nil, s.fail(err)
	}
	from := c.State
	if err = c.SetVerifying(); err != nil {
		return nil, s.fail(err)
	}

	evt := domain.NewEvent(domain.EventVerifying, c.ID)

	tr := port.Transition{CampaignID: c.ID, From: from, To: c.State}
	if err = s.repo.TransitionState(ctx, tr, evt); err != nil {
		return nil, s.fail(err)
	}
	s.metrics.ActionCommitted("verifying")
	return &port.ActionResult{CampaignID: c.ID, State: c.State}, nil
}

// SetLive moves a verifying campaign to live and pins its schedule.
func (s *EscrowService) SetLive(ctx context.Context, caller string, campaignID uint64, startTS, endTS int64) (*port.ActionResult, error) {
	c, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if err = s.requirePlatform(caller); err != nil {
		return nil, s.fail(err)
	}
	from := c.State
	if err = c.SetLive(startTS, endTS); err != nil {
		return nil, s.fail(err)
	}

	evt := domain.NewEvent(domain.EventLive, c.ID)
	evt.StartTS = startTS
	evt.EndTS = endTS

	tr := port.Transition{CampaignID: c.ID, From: from, To: c.State, StartTS: startTS, EndTS: endTS}
	if err = s.repo.TransitionState(ctx, tr, evt); err != nil {
		return nil, s.fail(err)
	}
	s.metrics.ActionCommitted("live")
	return &port.ActionResult{CampaignID: c.ID, State: c.State, StartTS: startTS, EndTS: endTS}, nil
}

// SetExpired moves a live campaign to expired once end_ts has passed.
func (s *EscrowService) SetExpired(ctx context.Context, caller string, campaignID uint64) (*port.ActionResult, error) {
	c, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if err = s.requirePlatform(caller); err != nil {
		return nil, s.fail(err)
	}
	from := c.State
	if err = c.SetExpired(s.now().Unix()); err != nil {
		return nil, s.fail(err)
	}

	evt := domain.NewEvent(domain.EventExpired, c.ID)

	tr := port.Transition{CampaignID: c.ID, From: from, To: c.State}
	if err = s.repo.TransitionState(ctx, tr, evt); err != nil {
		return nil, s.fail(err)
	}
	s.metrics.ActionCommitted("expired")
	return &port.ActionResult{CampaignID: c.ID, State: c.State}, nil
}

// HardCancel terminates the campaign and refunds the sponsor in full. It
// applies from every non-terminal, non-expired state: one strike, no
// negotiated settlement.
func (s *EscrowService) HardCancel(ctx context.Context, caller string, campaignID uint64, recipient string) (*port.ActionResult, error) {
	c, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if err = s.requirePlatform(caller); err != nil {
		return nil, s.fail(err)
	}
	if recipient != c.Sponsor {
		return nil, s.fail(domain.ErrInvalidRecipient)
	}
	from := c.State
	if err = c.HardCancel(); err != nil {
		return nil, s.fail(err)
	}

	evt := domain.NewEvent(domain.EventHardCanceled, c.ID)
	evt.Sponsor = c.Sponsor

	tr := port.Transition{CampaignID: c.ID, From: from, To: c.State}
	released, err := s.repo.TransitionAndRelease(ctx, tr, recipient, evt)
	if err != nil {
		return nil, s.fail(err)
	}
	s.metrics.ActionCommitted("hard_cancel")
	s.metrics.FundsReleased(released)
	return &port.ActionResult{CampaignID: c.ID, State: c.State, Released: released, Recipient: recipient}, nil
}

// CreatorClaim pays the escrow of an expired campaign out to the creator.
func (s *EscrowService) CreatorClaim(ctx context.Context, caller string, campaignID uint64) (*port.ActionResult, error) {
	c, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if err = s.requireCreator(c, caller); err != nil {
		return nil, s.fail(err)
	}
	from := c.State
	if err = c.Claim(); err != nil {
		return nil, s.fail(err)
	}

	evt := domain.NewEvent(domain.EventClaimed, c.ID)
	evt.Creator = c.Creator

	tr := port.Transition{CampaignID: c.ID, From: from, To: c.State}
	released, err := s.repo.TransitionAndRelease(ctx, tr, c.Creator, evt)
	if err != nil {
		return nil, s.fail(err)
	}
	s.metrics.ActionCommitted("claim")
	s.metrics.FundsReleased(released)
	return &port.ActionResult{CampaignID: c.ID, State: c.State, Released: released, Recipient: c.Creator}, nil
}

// GetCampaign returns the campaign together with its vault.
func (s *EscrowService) GetCampaign(ctx context.Context, campaignID uint64) (*port.CampaignDetail, error) {
	c, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	v, err := s.repo.GetVault(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return &port.CampaignDetail{Campaign: *c, Vault: *v}, nil
}

// ListEvents returns the campaign's event history in commit order.
func (s *EscrowService) ListEvents(ctx context.Context, campaignID uint64) ([]domain.Event, error) {
	if _, err := s.repo.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.repo.ListEvents(ctx, campaignID)
}

// requireCreator verifies the caller is the campaign's recorded creator.
func (s *EscrowService) requireCreator(c *domain.Campaign, caller string) error {
	if caller != c.Creator {
		return domain.ErrUnauthorized
	}
	return nil
}

// requirePlatform verifies the caller is the configured platform authority.
func (s *EscrowService) requirePlatform(caller string) error {
	if caller == "" || caller != s.platformAuthority {
		return domain.ErrUnauthorized
	}
	return nil
}

// fail records the guard failure and passes the error through unchanged.
func (s *EscrowService) fail(err error) error {
	s.metrics.GuardFailure(err)
	return err
}
