package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"billboard-escrow/internal/core/domain"
	"billboard-escrow/internal/core/port"
)

// EscrowRepository is an in-memory implementation of port.EscrowRepository.
// A single mutex serializes all mutations, which gives every method the same
// all-or-nothing semantics as the postgres adapter. It backs the usecase
// tests and local development without a database.
type EscrowRepository struct {
	mu        sync.Mutex
	campaigns map[uint64]*domain.Campaign
	vaults    map[uint64]*domain.Vault
	accounts  map[string]*domain.Account
	events    map[uint64][]domain.Event
}

// NewEscrowRepository returns an empty in-memory repository.
func NewEscrowRepository() *EscrowRepository {
	return &EscrowRepository{
		campaigns: make(map[uint64]*domain.Campaign),
		vaults:    make(map[uint64]*domain.Vault),
		accounts:  make(map[string]*domain.Account),
		events:    make(map[uint64][]domain.Event),
	}
}

// SetAccountBalance creates or overwrites an account. Test and seed helper.
func (r *EscrowRepository) SetAccountBalance(address string, balance uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	r.accounts[address] = &domain.Account{Address: address, Balance: balance, CreatedAt: now, UpdatedAt: now}
}

// CreateCampaignAndDeposit inserts the campaign, funds its vault from the
// sponsor's account and appends the created event as one unit.
func (r *EscrowRepository) CreateCampaignAndDeposit(_ context.Context, c *domain.Campaign, reserve uint64, evt *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.campaigns[c.ID]; ok {
		return port.ErrCampaignExists
	}
	sponsor, ok := r.accounts[c.Sponsor]
	if !ok {
		return port.ErrAccountNotFound
	}
	if sponsor.Balance < c.Amount {
		return port.ErrInsufficientFunds
	}

	now := time.Now().UTC()
	sponsor.Balance -= c.Amount
	sponsor.UpdatedAt = now

	c.State = domain.StateDeposited
	c.CreatedAt = now
	c.UpdatedAt = now
	stored := *c
	r.campaigns[c.ID] = &stored
	r.vaults[c.ID] = &domain.Vault{CampaignID: c.ID, Balance: c.Amount, Reserve: reserve, CreatedAt: now, UpdatedAt: now}

	r.appendEvent(evt)
	return nil
}

// GetCampaign returns a copy of the campaign or port.ErrCampaignNotFound.
func (r *EscrowRepository) GetCampaign(_ context.Context, id uint64) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, port.ErrCampaignNotFound
	}
	cp := *c
	return &cp, nil
}

// GetVault returns a copy of the vault or port.ErrCampaignNotFound.
func (r *EscrowRepository) GetVault(_ context.Context, campaignID uint64) (*domain.Vault, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vaults[campaignID]
	if !ok {
		return nil, port.ErrCampaignNotFound
	}
	cp := *v
	return &cp, nil
}

// GetAccount returns a copy of the account or port.ErrAccountNotFound.
func (r *EscrowRepository) GetAccount(_ context.Context, address string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[address]
	if !ok {
		return nil, port.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

// TransitionState applies a compare-and-set state change and appends the
// event.
func (r *EscrowRepository) TransitionState(_ context.Context, tr port.Transition, evt *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.lockAndCheckState(tr)
	if err != nil {
		return err
	}
	c.State = tr.To
	if tr.To == domain.StateLive {
		c.StartTS = tr.StartTS
		c.EndTS = tr.EndTS
	}
	c.UpdatedAt = time.Now().UTC()

	r.appendEvent(evt)
	return nil
}

// TransitionAndRelease applies a terminal state change and moves the vault's
// releasable balance to the recipient as one unit.
func (r *EscrowRepository) TransitionAndRelease(_ context.Context, tr port.Transition, recipient string, evt *domain.Event) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.lockAndCheckState(tr)
	if err != nil {
		return 0, err
	}
	v, ok := r.vaults[tr.CampaignID]
	if !ok {
		return 0, port.ErrCampaignNotFound
	}

	released := v.Releasable()
	now := time.Now().UTC()
	if released > 0 {
		v.Balance -= released
		v.UpdatedAt = now
		acc, ok := r.accounts[recipient]
		if !ok {
			acc = &domain.Account{Address: recipient, CreatedAt: now}
			r.accounts[recipient] = acc
		}
		acc.Balance += released
		acc.UpdatedAt = now
	}
	c.State = tr.To
	c.UpdatedAt = now

	evt.Amount = released
	r.appendEvent(evt)
	return released, nil
}

// ListEvents returns the campaign's events in commit order.
func (r *EscrowRepository) ListEvents(_ context.Context, campaignID uint64) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	evts := r.events[campaignID]
	out := make([]domain.Event, len(evts))
	copy(out, evts)
	return out, nil
}

func (r *EscrowRepository) lockAndCheckState(tr port.Transition) (*domain.Campaign, error) {
	c, ok := r.campaigns[tr.CampaignID]
	if !ok {
		return nil, port.ErrCampaignNotFound
	}
	if c.State != tr.From {
		return nil, domain.ErrInvalidState
	}
	return c, nil
}

func (r *EscrowRepository) appendEvent(evt *domain.Event) {
	evt.ID = uuid.NewString()
	evt.CreatedAt = time.Now().UTC()
	r.events[evt.CampaignID] = append(r.events[evt.CampaignID], *evt)
}
