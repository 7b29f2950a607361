package configs

// Escrow configures vault behaviour.
type Escrow struct {
	// VaultReserve is the balance floor every vault retains, in currency
	// smallest units. It is fixed per vault at creation and never
	// released.
	VaultReserve uint64 `env:"VAULT_RESERVE" envDefault:"0"`
}
