package middleware

import (
	"strings"

	"job-tracker/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

const CtxIdentityKey = "identity"

// Authenticator resolves an access token to the caller.
type Authenticator interface {
	Authenticate(accessToken string) (user.Identity, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Middleware rejects requests without a valid bearer token.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		id, err := m.auth.Authenticate(token)
		if err != nil {
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}
		c.Locals(CtxIdentityKey, &id)
		return c.Next()
	}
}

// Optional resolves the caller when a token is present and lets anonymous
// requests through. A present but invalid token is still rejected so a
// client with an expired session learns about it.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if strings.TrimSpace(header) == "" {
			return c.Next()
		}
		token, ok := BearerToken(header)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		id, err := m.auth.Authenticate(token)
		if err != nil {
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}
		c.Locals(CtxIdentityKey, &id)
		return c.Next()
	}
}

// IdentityFrom returns nil for anonymous requests.
func IdentityFrom(c fiber.Ctx) *user.Identity {
	id, _ := c.Locals(CtxIdentityKey).(*user.Identity)
	return id
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
