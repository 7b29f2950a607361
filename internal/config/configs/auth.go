package configs

import "time"

// Auth configures caller authentication and the trusted platform authority.
// The platform authority is a process-wide configuration value injected at
// startup; it is the only identity allowed to run platform actions.
type Auth struct {
	// JWTSecret is the HS256 signing key for bearer tokens.
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	// JWTIssuer is the issuer claim stamped on issued tokens.
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"billboard-escrow"`
	// TokenTTL bounds the lifetime of issued tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	// PlatformAuthority is the account address of the trusted arbiter.
	PlatformAuthority string `env:"PLATFORM_AUTHORITY" envDefault:"platform"`
}
