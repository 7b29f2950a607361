package domain

import "time"

// EventType names the committed action an event records.
type EventType string

const (
	EventCreated      EventType = "campaign.created"
	EventAccepted     EventType = "campaign.accepted"
	EventRejected     EventType = "campaign.rejected"
	EventVerifying    EventType = "campaign.verifying"
	EventLive         EventType = "campaign.live"
	EventExpired      EventType = "campaign.expired"
	EventHardCanceled EventType = "campaign.hard_canceled"
	EventClaimed      EventType = "campaign.claimed"
)

// Event is an immutable notification record appended after every successful
// action. Events are the sole mechanism for observers to reconstruct a
// campaign's history; ordering per campaign follows commit order. Only the
// fields an action produced are populated.
type Event struct {
	ID         string
	Type       EventType
	CampaignID uint64
	Sponsor    string
	Creator    string
	Amount     uint64 // deposit on create, released amount on refund/claim
	Duration   uint64
	StartTS    int64
	EndTS      int64
	CreatedAt  time.Time
}

// NewEvent returns an event for one committed action against a campaign. The
// repository assigns the ID and timestamp when it appends the record.
func NewEvent(t EventType, campaignID uint64) *Event {
	return &Event{Type: t, CampaignID: campaignID}
}
