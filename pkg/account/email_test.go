package account_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/barguni/auth/pkg/account"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a@b.com", want: "a@b.com"},
		{in: "  Alice@Example.COM \n", want: "alice@example.com"},
		{in: "Café@b.com", want: "café@b.com"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "no-at-sign", wantErr: true},
		{in: "@b.com", wantErr: true},
		{in: "a@", wantErr: true},
		{in: "a@b@c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := account.NormalizeEmail(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, account.ErrInvalidEmail)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
