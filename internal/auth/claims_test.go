package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_CustomerToken(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, err := issuer.IssueCustomerToken("cust-1")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.False(t, claims.Admin)
	assert.Equal(t, RoleCustomer, claims.Role)
	assert.Equal(t, "cust-1", claims.CustomerID)

	s := claims.Session()
	assert.True(t, s.IsCustomer())
	assert.Equal(t, "cust-1", s.CustomerID)
}

func TestIssuer_AdminToken(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, err := issuer.IssueAdminToken(7, "admin@pds.test")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
	assert.Equal(t, "7", claims.Subject)
	assert.True(t, claims.Session().Admin)
}

func TestIssuer_Parse(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	t.Run("Expired", func(t *testing.T) {
		past := NewIssuer("test-secret", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }

		token, err := past.IssueCustomerToken("cust-1")
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewIssuer("other-secret", time.Hour)
		token, err := other.IssueCustomerToken("cust-1")
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := issuer.Parse("not-a-token")
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("No scope", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"role": "customer",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = issuer.Parse(signed)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("Missing secret", func(t *testing.T) {
		_, err := NewIssuer("", time.Hour).Parse("x")
		assert.Equal(t, ErrMissingSecret, err)

		_, err = NewIssuer("", time.Hour).IssueCustomerToken("c")
		assert.Equal(t, ErrMissingSecret, err)
	})
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("Admin@123")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("Admin@123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
