package password

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("Abcdef1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "Abcdef1", hash)
	assert.True(t, Verify("Abcdef1", hash))
	assert.False(t, Verify("abcdef1", hash))
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("Abcdef1", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := Hash("Abcdef1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHashFallsBackToDefaultCost(t *testing.T) {
	hash, err := Hash("Abcdef1", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}

func TestHashContextHonoursDeadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := HashContext(ctx, "Abcdef1", bcrypt.MaxCost)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerifyContext(t *testing.T) {
	hash, err := Hash("Abcdef1", bcrypt.MinCost)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, err := VerifyContext(ctx, "Abcdef1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyContext(ctx, "wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     error
	}{
		{"valid", "Abcdef1", nil},
		{"too short", "Ab1", ErrTooShort},
		{"longest", "Abcdef1" + strings.Repeat("x", 65), nil},
		{"too long", "Abcdef1" + strings.Repeat("x", 66), ErrTooLong},
		{"no upper", "abcdef1", ErrMissingClasses},
		{"no lower", "ABCDEF1", ErrMissingClasses},
		{"no digit", "Abcdefg", ErrMissingClasses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPolicy(tt.password))
		})
	}
}

func TestPolicyLimitMatchesBcrypt(t *testing.T) {
	longest := "Abcdef1" + strings.Repeat("x", MaxLength-7)
	require.NoError(t, CheckPolicy(longest))
	_, err := Hash(longest, bcrypt.MinCost)
	require.NoError(t, err)

	_, err = Hash(longest+"x", bcrypt.MinCost)
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}
