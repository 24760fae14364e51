package cms

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// ClaimsContextKey is where the auth middleware stores validated claims.
const ClaimsContextKey = "auth_claims"

// NewServer builds the fiber application with the shared error handler.
// Every handler returns errors; this is the single place they become
// HTTP statuses and {error} bodies.
func NewServer(logger Logger) *fiber.App {
	if logger == nil {
		logger = defLogger{}
	}

	return fiber.New(fiber.Config{
		AppName:      "go-cms",
		ErrorHandler: NewErrorHandler(logger),
	})
}

// RequireAuth enforces a bearer token on the request. Missing header,
// wrong scheme and token validation failures all collapse into 401.
func RequireAuth(tokens TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if header == "" {
			return ErrUnauthenticated
		}

		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return ErrUnauthenticated
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			return err
		}

		c.Locals(ClaimsContextKey, claims)
		c.SetUserContext(WithClaimsContext(c.UserContext(), claims))
		return c.Next()
	}
}

// RequireRole enforces a minimum role. It must run after RequireAuth.
func RequireRole(minRole Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return ErrUnauthenticated
		}

		if !claims.IsAtLeast(minRole) {
			return ErrForbidden.WithMetadata(map[string]any{
				"required": minRole,
				"role":     claims.Role(),
			})
		}

		return c.Next()
	}
}

// ClaimsFromContext retrieves the validated claims stored by RequireAuth.
func ClaimsFromContext(c *fiber.Ctx) (AuthClaims, bool) {
	claims, ok := c.Locals(ClaimsContextKey).(AuthClaims)
	return claims, ok
}

// NewErrorHandler is the conversion point between the error taxonomy and
// the wire. Anything it does not recognize is normalized to a 500 with a
// generic message; internals never leak.
func NewErrorHandler(logger Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var rich *goerrors.Error
		if goerrors.As(err, &rich) {
			status := httpStatus(rich)
			if status == fiber.StatusInternalServerError {
				logger.Error("internal error: %v", err)
				return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
			}
			return c.Status(status).JSON(fiber.Map{"error": rich.Message})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		logger.Error("unhandled error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}

func httpStatus(rich *goerrors.Error) int {
	switch rich.Category {
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return fiber.StatusForbidden
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusBadRequest
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryConflict:
		// referential conflicts are a 400, not a duplicate-record 409
		if rich.TextCode == "REFERENTIAL_CONFLICT" {
			return fiber.StatusBadRequest
		}
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
