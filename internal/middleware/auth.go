package middleware

import (
	"strings"
	"time"

	"unistay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const authLocal = "auth_user"

// AuthUser is the actor identity carried through a request.
type AuthUser struct {
	UserID uuid.UUID
	Role   string
}

// Claims is the JWT payload issued at login.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a bearer token for the given user.
func IssueToken(secret string, userID uuid.UUID, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// RequireAuth verifies the bearer token and puts the AuthUser in Locals.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return response.Unauthorized(c, "Unauthorized")
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return response.Unauthorized(c, "Invalid or expired token")
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}
		c.Locals(authLocal, AuthUser{UserID: userID, Role: claims.Role})
		return c.Next()
	}
}

// RequireRole gates a route to the given roles. Must run after RequireAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetAuthUser(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		for _, r := range roles {
			if user.Role == r {
				return c.Next()
			}
		}
		return response.Error(c, fiber.StatusForbidden, "User is Forbidden from performing this action")
	}
}

// GetAuthUser returns the authenticated actor from Locals.
func GetAuthUser(c *fiber.Ctx) (AuthUser, bool) {
	user, ok := c.Locals(authLocal).(AuthUser)
	return user, ok
}

// SetAuthUser is a test hook for handler tests that bypass RequireAuth.
func SetAuthUser(c *fiber.Ctx, user AuthUser) {
	c.Locals(authLocal, user)
}
