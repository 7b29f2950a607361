package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"billboard-escrow/internal/core/domain"
	"billboard-escrow/internal/core/port"
)

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

// EscrowRepository implements port.EscrowRepository using pgxpool. Every
// mutating method runs a single serializable transaction with row locks on
// the campaign (and vault) so the state update, balance move and event append
// commit or roll back together.
type EscrowRepository struct {
	pool *pgxpool.Pool
}

// NewEscrowRepository returns a new repository instance.
func NewEscrowRepository(pool *pgxpool.Pool) *EscrowRepository {
	return &EscrowRepository{pool: pool}
}

// CreateCampaignAndDeposit inserts the campaign, funds its vault with a
// single deposit of campaign.Amount debited from the sponsor's account and
// appends the created event, all in one transaction.
func (r *EscrowRepository) CreateCampaignAndDeposit(ctx context.Context, c *domain.Campaign, reserve uint64, evt *domain.Event) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	// lock the sponsor balance for the debit
	var sponsorBalance int64
	err = tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE address = $1 FOR UPDATE`, c.Sponsor).Scan(&sponsorBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		return port.ErrAccountNotFound
	}
	if err != nil {
		return err
	}
	if uint64(sponsorBalance) < c.Amount {
		return port.ErrInsufficientFunds
	}

	now := time.Now().UTC()
	c.State = domain.StateDeposited
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err = tx.Exec(ctx, `INSERT INTO campaigns
	(id, sponsor, creator, amount, duration, state, start_ts, end_ts, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,0,0,$7,$7)`,
		int64(c.ID), c.Sponsor, c.Creator, int64(c.Amount), int64(c.Duration), string(c.State), now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return port.ErrCampaignExists
		}
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE accounts SET balance = balance - $1, updated_at = $2 WHERE address = $3`,
		int64(c.Amount), now, c.Sponsor)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `INSERT INTO vaults (campaign_id, balance, reserve, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$4)`, int64(c.ID), int64(c.Amount), int64(reserve), now)
	if err != nil {
		return err
	}

	return appendEvent(ctx, tx, evt)
}

// GetCampaign returns the campaign or port.ErrCampaignNotFound.
func (r *EscrowRepository) GetCampaign(ctx context.Context, id uint64) (*domain.Campaign, error) {
	var (
		c                     domain.Campaign
		cid, amount, duration int64
	)
	err := r.pool.QueryRow(ctx, `SELECT id, sponsor, creator, amount, duration, state, start_ts, end_ts, created_at, updated_at
	FROM campaigns WHERE id = $1`, int64(id)).
		Scan(&cid, &c.Sponsor, &c.Creator, &amount, &duration, &c.State, &c.StartTS, &c.EndTS, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}
	c.ID = uint64(cid)
	c.Amount = uint64(amount)
	c.Duration = uint64(duration)
	return &c, nil
}

// GetVault returns the campaign's vault or port.ErrCampaignNotFound.
func (r *EscrowRepository) GetVault(ctx context.Context, campaignID uint64) (*domain.Vault, error) {
	var (
		v                     domain.Vault
		cid, balance, reserve int64
	)
	err := r.pool.QueryRow(ctx, `SELECT campaign_id, balance, reserve, created_at, updated_at
	FROM vaults WHERE campaign_id = $1`, int64(campaignID)).
		Scan(&cid, &balance, &reserve, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}
	v.CampaignID = uint64(cid)
	v.Balance = uint64(balance)
	v.Reserve = uint64(reserve)
	return &v, nil
}

// GetAccount returns the account or port.ErrAccountNotFound.
func (r *EscrowRepository) GetAccount(ctx context.Context, address string) (*domain.Account, error) {
	var (
		a       domain.Account
		balance int64
	)
	err := r.pool.QueryRow(ctx, `SELECT address, balance, created_at, updated_at FROM accounts WHERE address = $1`, address).
		Scan(&a.Address, &balance, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Balance = uint64(balance)
	return &a, nil
}

// TransitionState applies a compare-and-set state change and appends the
// event in one transaction.
func (r *EscrowRepository) TransitionState(ctx context.Context, tr port.Transition, evt *domain.Event) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if err = lockAndCheckState(ctx, tx, tr); err != nil {
		return err
	}

	now := time.Now().UTC()
	if tr.To == domain.StateLive {
		_, err = tx.Exec(ctx, `UPDATE campaigns SET state = $1, start_ts = $2, end_ts = $3, updated_at = $4 WHERE id = $5`,
			string(tr.To), tr.StartTS, tr.EndTS, now, int64(tr.CampaignID))
	} else {
		_, err = tx.Exec(ctx, `UPDATE campaigns SET state = $1, updated_at = $2 WHERE id = $3`,
			string(tr.To), now, int64(tr.CampaignID))
	}
	if err != nil {
		return err
	}

	return appendEvent(ctx, tx, evt)
}

// TransitionAndRelease applies a terminal state change and moves the vault's
// releasable balance to the recipient in the same transaction. A vault
// already at its reserve floor releases zero and still commits the
// transition.
func (r *EscrowRepository) TransitionAndRelease(ctx context.Context, tr port.Transition, recipient string, evt *domain.Event) (released uint64, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if err = lockAndCheckState(ctx, tx, tr); err != nil {
		return 0, err
	}

	var balance, reserve int64
	err = tx.QueryRow(ctx, `SELECT balance, reserve FROM vaults WHERE campaign_id = $1 FOR UPDATE`, int64(tr.CampaignID)).
		Scan(&balance, &reserve)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, port.ErrCampaignNotFound
	}
	if err != nil {
		return 0, err
	}

	vault := domain.Vault{CampaignID: tr.CampaignID, Balance: uint64(balance), Reserve: uint64(reserve)}
	released = vault.Releasable()

	now := time.Now().UTC()
	if released > 0 {
		_, err = tx.Exec(ctx, `UPDATE vaults SET balance = balance - $1, updated_at = $2 WHERE campaign_id = $3`,
			int64(released), now, int64(tr.CampaignID))
		if err != nil {
			return 0, err
		}
		_, err = tx.Exec(ctx, `INSERT INTO accounts (address, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (address) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance, updated_at = EXCLUDED.updated_at`,
			recipient, int64(released), now)
		if err != nil {
			return 0, err
		}
	}

	_, err = tx.Exec(ctx, `UPDATE campaigns SET state = $1, updated_at = $2 WHERE id = $3`,
		string(tr.To), now, int64(tr.CampaignID))
	if err != nil {
		return 0, err
	}

	evt.Amount = released
	if err = appendEvent(ctx, tx, evt); err != nil {
		return 0, err
	}
	return released, nil
}

// ListEvents returns the campaign's events in commit order.
func (r *EscrowRepository) ListEvents(ctx context.Context, campaignID uint64) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, event_type, campaign_id, sponsor, creator, amount, duration, start_ts, end_ts, created_at
	FROM campaign_events WHERE campaign_id = $1 ORDER BY seq`, int64(campaignID))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Event, error) {
		var (
			e                     domain.Event
			cid, amount, duration int64
		)
		err := row.Scan(&e.ID, &e.Type, &cid, &e.Sponsor, &e.Creator, &amount, &duration, &e.StartTS, &e.EndTS, &e.CreatedAt)
		e.CampaignID = uint64(cid)
		e.Amount = uint64(amount)
		e.Duration = uint64(duration)
		return e, err
	})
}

// lockAndCheckState locks the campaign row and verifies its stored state
// still equals tr.From, so a concurrent commit surfaces as an invalid state
// instead of being overwritten.
func lockAndCheckState(ctx context.Context, tx pgx.Tx, tr port.Transition) error {
	var state string
	err := tx.QueryRow(ctx, `SELECT state FROM campaigns WHERE id = $1 FOR UPDATE`, int64(tr.CampaignID)).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return port.ErrCampaignNotFound
	}
	if err != nil {
		return err
	}
	if domain.State(state) != tr.From {
		return domain.ErrInvalidState
	}
	return nil
}

// appendEvent inserts the immutable event record, assigning its id and
// timestamp.
func appendEvent(ctx context.Context, tx pgx.Tx, evt *domain.Event) error {
	evt.ID = uuid.NewString()
	evt.CreatedAt = time.Now().UTC()
	_, err := tx.Exec(ctx, `INSERT INTO campaign_events
	(id, event_type, campaign_id, sponsor, creator, amount, duration, start_ts, end_ts, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		evt.ID, string(evt.Type), int64(evt.CampaignID), evt.Sponsor, evt.Creator,
		int64(evt.Amount), int64(evt.Duration), evt.StartTS, evt.EndTS, evt.CreatedAt)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}
