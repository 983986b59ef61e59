package account

import "time"

// Account is a registered user. Email is the only identity key shared by
// every login path and never changes after creation.
type Account struct {
	ID              string
	Email           string
	DisplayName     string
	DefaultBasketID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
