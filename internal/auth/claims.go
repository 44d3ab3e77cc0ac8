package auth

import (
	"errors"
	"fmt"
	"time"

	"ration-be/internal/transport"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var (
	ErrMissingSecret = errors.New("token secret is not set")
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims carries the custom claims of a session token. Admin is the flag the
// back-office checks; a token without it routes to the customer portal.
type Claims struct {
	Admin      bool   `json:"admin,omitempty"`
	Role       string `json:"role"`
	CustomerID string `json:"customer_id,omitempty"`
	Email      string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Session converts verified claims into the request session.
func (c *Claims) Session() *transport.Session {
	return &transport.Session{
		Subject:    c.Subject,
		CustomerID: c.CustomerID,
		Email:      c.Email,
		Admin:      c.Admin,
	}
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueCustomerToken returns a token scoped to a single customer.
func (i *Issuer) IssueCustomerToken(customerID string) (string, error) {
	return i.sign(Claims{
		Role:       RoleCustomer,
		CustomerID: customerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: customerID,
		},
	})
}

// IssueAdminToken returns a token carrying the admin claim.
func (i *Issuer) IssueAdminToken(userID int64, email string) (string, error) {
	return i.sign(Claims{
		Admin: true,
		Role:  RoleAdmin,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: fmt.Sprint(userID),
		},
	})
}

func (i *Issuer) sign(c Claims) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrMissingSecret
	}

	now := i.now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(i.secret)
}

func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	if len(i.secret) == 0 {
		return nil, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if !claims.Admin && claims.CustomerID == "" {
		return nil, fmt.Errorf("%w: no customer scope", ErrInvalidToken)
	}

	return claims, nil
}
