package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/comptavision/comptavision-api/internal/domain"
	"github.com/comptavision/comptavision-api/internal/infrastructure/security"
)

func TestBcryptHasher_HashYCompare(t *testing.T) {
	h := security.NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secreto123")
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", hash)

	assert.NoError(t, h.Compare(hash, "secreto123"))
	assert.Error(t, h.Compare(hash, "otro"))
}

func TestBcryptHasher_SalDistinta(t *testing.T) {
	h := security.NewBcryptHasher(bcrypt.MinCost)
	a, err := h.Hash("secreto123")
	require.NoError(t, err)
	b, err := h.Hash("secreto123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewBcryptHasher_CosteFueraDeRango(t *testing.T) {
	h := security.NewBcryptHasher(0)
	hash, err := h.Hash("x")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, security.DefaultCost, cost)
}

func TestBcryptHasher_PasswordDemasiadoLargo(t *testing.T) {
	h := security.NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)

	_, err = h.Hash(strings.Repeat("a", 72))
	assert.NoError(t, err)
}
