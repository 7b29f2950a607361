package domain

import "time"

// State is the lifecycle state of a campaign. Transitions follow the directed
// edges implemented by the methods on Campaign; there is no path back into an
// earlier state, and claimed/canceled_hard are terminal.
type State string

const (
	StateDeposited    State = "deposited"
	StateApproved     State = "approved"
	StateVerifying    State = "verifying"
	StateLive         State = "live"
	StateExpired      State = "expired"
	StateClaimed      State = "claimed"
	StateCanceledHard State = "canceled_hard"
)

// Terminal reports whether no transition leaves the state.
func (s State) Terminal() bool {
	return s == StateClaimed || s == StateCanceledHard
}

// Campaign is the agreement record between a sponsor and a creator. Amounts
// are stored in integer units (native-currency smallest unit). All fields
// except State, StartTS and EndTS are immutable after creation; StartTS and
// EndTS are set exactly once by SetLive.
type Campaign struct {
	ID        uint64
	Sponsor   string
	Creator   string
	Amount    uint64
	Duration  uint64 // requested length in seconds, informational
	State     State
	StartTS   int64
	EndTS     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCampaign returns a campaign in the deposited state. The matching vault
// deposit is the repository's responsibility.
func NewCampaign(id uint64, sponsor, creator string, amount, duration uint64) *Campaign {
	return &Campaign{
		ID:       id,
		Sponsor:  sponsor,
		Creator:  creator,
		Amount:   amount,
		Duration: duration,
		State:    StateDeposited,
	}
}

// Accept moves the campaign from deposited to approved.
func (c *Campaign) Accept() error {
	if c.State != StateDeposited {
		return ErrInvalidState
	}
	c.State = StateApproved
	return nil
}

// Reject moves the campaign from deposited to canceled_hard. The escrowed
// deposit goes back to the sponsor in full.
func (c *Campaign) Reject() error {
	if c.State != StateDeposited {
		return ErrInvalidState
	}
	c.State = StateCanceledHard
	return nil
}

// SetVerifying moves the campaign from approved to verifying.
func (c *Campaign) SetVerifying() error {
	if c.State != StateApproved {
		return ErrInvalidState
	}
	c.State = StateVerifying
	return nil
}

// SetLive moves the campaign from verifying to live and pins the schedule.
// The timestamps are set exactly once; end must be after start.
func (c *Campaign) SetLive(startTS, endTS int64) error {
	if c.State != StateVerifying {
		return ErrInvalidState
	}
	if endTS <= startTS {
		return ErrInvalidTimestamps
	}
	c.State = StateLive
	c.StartTS = startTS
	c.EndTS = endTS
	return nil
}

// SetExpired moves the campaign from live to expired once the clock has
// reached end_ts.
func (c *Campaign) SetExpired(now int64) error {
	if c.State != StateLive {
		return ErrInvalidState
	}
	if now < c.EndTS {
		return ErrNotYetExpired
	}
	c.State = StateExpired
	return nil
}

// HardCancel moves the campaign to canceled_hard from any non-terminal,
// non-expired state. One strike and it's over: the full remaining escrow is
// refunded to the sponsor regardless of how far the campaign progressed.
func (c *Campaign) HardCancel() error {
	switch c.State {
	case StateDeposited, StateApproved, StateVerifying, StateLive:
		c.State = StateCanceledHard
		return nil
	}
	return ErrInvalidState
}

// Claim moves the campaign from expired to claimed. The escrowed deposit is
// paid out to the creator in full.
func (c *Campaign) Claim() error {
	if c.State != StateExpired {
		return ErrInvalidState
	}
	c.State = StateClaimed
	return nil
}
