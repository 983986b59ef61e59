package token

import "time"

const (
	// MinSecretLength is the shortest HMAC secret New accepts.
	MinSecretLength = 32

	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 14 * 24 * time.Hour
)

// Config holds session token configuration.
type Config struct {
	Secret     string        `env:"TOKEN_SECRET"`
	Issuer     string        `env:"TOKEN_ISSUER" envDefault:"barguni"`
	AccessTTL  time.Duration `env:"TOKEN_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"TOKEN_REFRESH_TTL" envDefault:"336h"`
}

func (c *Config) applyDefaults() {
	if c.AccessTTL <= 0 {
		c.AccessTTL = DefaultAccessTTL
	}
	if c.RefreshTTL <= 0 {
		c.RefreshTTL = DefaultRefreshTTL
	}
}

func (c Config) validate() error {
	switch {
	case c.Secret == "":
		return ErrMissingSecret
	case len(c.Secret) < MinSecretLength:
		return ErrSecretTooShort
	}
	return nil
}
