package auth

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JwtKey is the HMAC secret for token verification. Loaded from JWT_SECRET at
// startup.
var JwtKey []byte

// RoleAdmin marks a privileged caller.
const RoleAdmin = "admin"

// Principal is the authenticated caller. Token issuance belongs to the
// external identity provider; this service only verifies.
type Principal struct {
	ID    string
	Email string
	Role  string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccess is the single owner-or-admin rule used by every read and update
// path.
func CanAccess(p Principal, ownerID string) bool {
	return p.IsAdmin() || p.ID == ownerID
}

// Claims represents the JWT claims issued by the identity provider.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// Principal converts verified claims into a Principal.
func (c *Claims) Principal() Principal {
	return Principal{ID: c.UserID, Email: c.Email, Role: c.Role}
}

// GenerateToken signs a token for the given principal. Used by tooling and
// tests; production tokens come from the identity provider.
func GenerateToken(p Principal) (string, error) {
	claims := &Claims{
		UserID: p.ID,
		Email:  p.Email,
		Role:   p.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtKey)
}

type contextKey string

const principalContextKey = contextKey("principal")

// ContextWithPrincipal attaches the principal to the request context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// FromContext extracts the principal placed by the auth middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}
