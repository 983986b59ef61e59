package account

import (
	"context"
	"time"
)

// Store persists accounts. Implementations must enforce email uniqueness
// themselves: Create returns ErrConflict when another writer, in this process
// or any other, already stored the email.
type Store interface {
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByID(ctx context.Context, id string) (Account, error)
	Create(ctx context.Context, a Account) (Account, error)
	UpdateDisplayName(ctx context.Context, id, displayName string, at time.Time) (Account, error)
}
