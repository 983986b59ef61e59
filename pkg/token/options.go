package token

import "time"

// Option configures a Codec.
type Option func(*Codec)

// WithClock replaces time.Now for minting and verification.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}
