package domain

import "time"

// Vault is the escrow balance container bound 1:1 to a campaign. It is funded
// by a single deposit at creation and drained at most once, to exactly one
// recipient. Reserve is the floor the vault must retain; it is never
// transferred out.
type Vault struct {
	CampaignID uint64
	Balance    uint64
	Reserve    uint64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Releasable returns the amount a refund or claim may move out of the vault:
// balance minus the reserve floor, saturating at zero.
func (v *Vault) Releasable() uint64 {
	if v.Balance <= v.Reserve {
		return 0
	}
	return v.Balance - v.Reserve
}

// Account is a keyed native-currency balance. Sponsors are debited on
// deposit; refund and payout recipients are credited on release.
type Account struct {
	Address   string
	Balance   uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}
