package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func campaignIn(state State) *Campaign {
	c := NewCampaign(1, "sponsor", "creator", 1000, 86400)
	c.State = state
	if state == StateLive || state == StateExpired {
		c.StartTS = 100
		c.EndTS = 200
	}
	return c
}

func allStates() []State {
	return []State{
		StateDeposited, StateApproved, StateVerifying, StateLive,
		StateExpired, StateClaimed, StateCanceledHard,
	}
}

func TestNewCampaignStartsDeposited(t *testing.T) {
	c := NewCampaign(7, "s", "c", 500, 3600)
	assert.Equal(t, StateDeposited, c.State)
	assert.Zero(t, c.StartTS)
	assert.Zero(t, c.EndTS)
}

func TestAcceptOnlyFromDeposited(t *testing.T) {
	for _, state := range allStates() {
		c := campaignIn(state)
		err := c.Accept()
		if state == StateDeposited {
			require.NoError(t, err, "state %s", state)
			assert.Equal(t, StateApproved, c.State)
		} else {
			require.ErrorIs(t, err, ErrInvalidState, "state %s", state)
			assert.Equal(t, state, c.State, "state must be untouched")
		}
	}
}

func TestRejectOnlyFromDeposited(t *testing.T) {
	for _, state := range allStates() {
		c := campaignIn(state)
		err := c.Reject()
		if state == StateDeposited {
			require.NoError(t, err)
			assert.Equal(t, StateCanceledHard, c.State)
		} else {
			require.ErrorIs(t, err, ErrInvalidState, "state %s", state)
			assert.Equal(t, state, c.State)
		}
	}
}

func TestSetVerifyingOnlyFromApproved(t *testing.T) {
	for _, state := range allStates() {
		c := campaignIn(state)
		err := c.SetVerifying()
		if state == StateApproved {
			require.NoError(t, err)
			assert.Equal(t, StateVerifying, c.State)
		} else {
			require.ErrorIs(t, err, ErrInvalidState, "state %s", state)
		}
	}
}

func TestSetLive(t *testing.T) {
	c := campaignIn(StateVerifying)
	require.NoError(t, c.SetLive(100, 200))
	assert.Equal(t, StateLive, c.State)
	assert.EqualValues(t, 100, c.StartTS)
	assert.EqualValues(t, 200, c.EndTS)
}

func TestSetLiveRejectsBadTimestamps(t *testing.T) {
	for _, ts := range []struct{ start, end int64 }{
		{200, 200},
		{200, 100},
		{0, 0},
	} {
		c := campaignIn(StateVerifying)
		err := c.SetLive(ts.start, ts.end)
		require.ErrorIs(t, err, ErrInvalidTimestamps, "start=%d end=%d", ts.start, ts.end)
		assert.Equal(t, StateVerifying, c.State, "campaign must stay in verifying")
		assert.Zero(t, c.StartTS)
		assert.Zero(t, c.EndTS)
	}
}

func TestSetLiveOnlyFromVerifying(t *testing.T) {
	for _, state := range allStates() {
		if state == StateVerifying {
			continue
		}
		c := campaignIn(state)
		require.ErrorIs(t, c.SetLive(100, 200), ErrInvalidState, "state %s", state)
	}
}

func TestSetExpired(t *testing.T) {
	c := campaignIn(StateLive)

	err := c.SetExpired(150)
	require.ErrorIs(t, err, ErrNotYetExpired)
	assert.Equal(t, StateLive, c.State, "campaign must stay live")

	require.NoError(t, c.SetExpired(200))
	assert.Equal(t, StateExpired, c.State)
}

func TestSetExpiredOnlyFromLive(t *testing.T) {
	for _, state := range allStates() {
		if state == StateLive {
			continue
		}
		c := campaignIn(state)
		require.ErrorIs(t, c.SetExpired(1<<40), ErrInvalidState, "state %s", state)
	}
}

func TestHardCancelReachableFromExactlyFourStates(t *testing.T) {
	cancelable := map[State]bool{
		StateDeposited: true,
		StateApproved:  true,
		StateVerifying: true,
		StateLive:      true,
	}
	for _, state := range allStates() {
		c := campaignIn(state)
		err := c.HardCancel()
		if cancelable[state] {
			require.NoError(t, err, "state %s", state)
			assert.Equal(t, StateCanceledHard, c.State)
		} else {
			require.ErrorIs(t, err, ErrInvalidState, "state %s", state)
			assert.Equal(t, state, c.State)
		}
	}
}

func TestClaimOnlyFromExpired(t *testing.T) {
	for _, state := range allStates() {
		c := campaignIn(state)
		err := c.Claim()
		if state == StateExpired {
			require.NoError(t, err)
			assert.Equal(t, StateClaimed, c.State)
		} else {
			require.ErrorIs(t, err, ErrInvalidState, "state %s", state)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, state := range []State{StateClaimed, StateCanceledHard} {
		require.True(t, state.Terminal())
		c := campaignIn(state)
		assert.ErrorIs(t, c.Accept(), ErrInvalidState)
		assert.ErrorIs(t, c.Reject(), ErrInvalidState)
		assert.ErrorIs(t, c.SetVerifying(), ErrInvalidState)
		assert.ErrorIs(t, c.SetLive(100, 200), ErrInvalidState)
		assert.ErrorIs(t, c.SetExpired(1<<40), ErrInvalidState)
		assert.ErrorIs(t, c.HardCancel(), ErrInvalidState)
		assert.ErrorIs(t, c.Claim(), ErrInvalidState)
		assert.Equal(t, state, c.State)
	}
	assert.False(t, StateExpired.Terminal())
}
