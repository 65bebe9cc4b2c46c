package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	tok, err := Generate(secret, "user-1", "a@b.cm", "tenant-1", "ADMIN", "comptavision", time.Hour)
	require.NoError(t, err)

	claims, err := Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "a@b.cm", claims.Email)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "comptavision", claims.Issuer)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := generateAt(time.Now().Add(-2*time.Hour), secret, "user-1", "a@b.cm", "tenant-1", "ADMIN", "x", time.Hour)
	require.NoError(t, err)

	_, err = Parse(secret, tok)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestParse_OtroSecreto(t *testing.T) {
	tok, err := Generate("otro-secreto", "user-1", "a@b.cm", "tenant-1", "ADMIN", "x", time.Hour)
	require.NoError(t, err)

	_, err = Parse(secret, tok)
	assert.ErrorIs(t, err, gojwt.ErrTokenSignatureInvalid)
}

func TestParse_AlgoritmoNone(t *testing.T) {
	claims := Claims{RegisteredClaims: gojwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Parse(secret, tok)
	assert.Error(t, err)
}

func TestParse_SinExpiracion(t *testing.T) {
	claims := Claims{RegisteredClaims: gojwt.RegisteredClaims{Subject: "user-1"}}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = Parse(secret, tok)
	assert.Error(t, err)
}

func TestParse_SinSujeto(t *testing.T) {
	tok, err := Generate(secret, "", "a@b.cm", "tenant-1", "ADMIN", "x", time.Hour)
	require.NoError(t, err)

	_, err = Parse(secret, tok)
	assert.Error(t, err)
}

func TestSecretoVacio(t *testing.T) {
	_, err := Generate("", "user-1", "a@b.cm", "tenant-1", "ADMIN", "x", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = Parse("", "cualquiera")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
