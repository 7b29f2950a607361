package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"billboard-escrow/internal/core/domain"
	"billboard-escrow/internal/core/port"
)

// Metrics holds the Prometheus instruments for the escrow lifecycle. A nil
// *Metrics is valid and records nothing, which keeps tests free of registry
// wiring.
type Metrics struct {
	actionsCommitted *prometheus.CounterVec
	fundsReleased    prometheus.Counter
	guardFailures    *prometheus.CounterVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		actionsCommitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_actions_committed_total",
			Help: "Total number of committed lifecycle actions by action name",
		}, []string{"action"}),
		fundsReleased: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_funds_released_total",
			Help: "Total currency units released from vaults to recipients",
		}),
		guardFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_guard_failures_total",
			Help: "Total rejected actions by failure reason",
		}, []string{"reason"}),
	}
}

// ActionCommitted counts one committed action.
func (m *Metrics) ActionCommitted(action string) {
	if m == nil {
		return
	}
	m.actionsCommitted.WithLabelValues(action).Inc()
}

// FundsReleased adds the released amount to the running total.
func (m *Metrics) FundsReleased(amount uint64) {
	if m == nil {
		return
	}
	m.fundsReleased.Add(float64(amount))
}

// GuardFailure counts one rejected action under its taxonomy reason.
func (m *Metrics) GuardFailure(err error) {
	if m == nil {
		return
	}
	m.guardFailures.WithLabelValues(reason(err)).Inc()
}

func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrInvalidRecipient):
		return "invalid_recipient"
	case errors.Is(err, domain.ErrInvalidTimestamps):
		return "invalid_timestamps"
	case errors.Is(err, domain.ErrNotYetExpired):
		return "not_yet_expired"
	case errors.Is(err, port.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, port.ErrCampaignExists):
		return "campaign_exists"
	default:
		return "other"
	}
}
