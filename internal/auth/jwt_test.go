package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	secret, err := GenerateSecureSecret()
	require.NoError(t, err)

	issuer, err := NewIssuer(secret, time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("builder", true)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."), "три части JWT")

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "builder", claims.Editor)
	assert.True(t, claims.CanEdit)
	assert.Equal(t, "blockverse", claims.Issuer)
}

func TestValidateRejects(t *testing.T) {
	issuer, err := NewIssuer("", time.Hour)
	require.NoError(t, err)
	other, err := NewIssuer("", time.Hour)
	require.NoError(t, err)

	foreign, err := other.Issue("intruder", true)
	require.NoError(t, err)
	_, err = issuer.Validate(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken, "чужой секрет")

	_, err = issuer.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewIssuer("", time.Hour)
	require.NoError(t, err)
	expired.ttl = -time.Minute
	old, err := expired.Issue("late", true)
	require.NoError(t, err)
	_, err = expired.Validate(old)
	assert.ErrorIs(t, err, ErrInvalidToken, "истёкший токен")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Editor: "x"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken, "токен без подписи")
}

func TestNewIssuerSecretChecks(t *testing.T) {
	_, err := NewIssuer("%%%", time.Hour)
	assert.Error(t, err)

	_, err = NewIssuer(base64.StdEncoding.EncodeToString([]byte("short")), time.Hour)
	assert.ErrorIs(t, err, ErrWeakSecret)
}
