package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"

	"lilmail/utils"
)

// CSRFConfig holds CSRF protection configuration
type CSRFConfig struct {
	TokenLength  int
	CookieName   string
	HeaderName   string
	FormField    string
	ContextKey   string
	CookieMaxAge int
	CookieSecure bool
	Skipper      func(*fiber.Ctx) bool
}

// DefaultCSRFConfig returns default CSRF configuration
func DefaultCSRFConfig() CSRFConfig {
	return CSRFConfig{
		TokenLength:  32,
		CookieName:   "csrf_token",
		HeaderName:   "X-CSRF-Token",
		FormField:    "_csrf",
		ContextKey:   "csrf",
		CookieMaxAge: 24 * 3600,
	}
}

// CSRFProtection issues a token cookie on safe requests and, on unsafe ones,
// requires the header or form field to match it (double-submit cookie)
func CSRFProtection(config ...CSRFConfig) fiber.Handler {
	cfg := DefaultCSRFConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		if cfg.Skipper != nil && cfg.Skipper(c) {
			return c.Next()
		}

		cookieToken := c.Cookies(cfg.CookieName)

		if c.Method() == fiber.MethodGet ||
			c.Method() == fiber.MethodHead ||
			c.Method() == fiber.MethodOptions {
			if cookieToken == "" {
				cookieToken = issueToken(c, cfg)
			}
			c.Locals(cfg.ContextKey, cookieToken)
			return c.Next()
		}

		submitted := c.Get(cfg.HeaderName)
		if submitted == "" {
			submitted = c.FormValue(cfg.FormField)
		}

		if cookieToken == "" || submitted == "" {
			return utils.ForbiddenError(utils.T(Localizer(c), "error_csrf"), nil).
				WithContext("reason", "missing")
		}
		if !tokensEqual(cookieToken, submitted) {
			return utils.ForbiddenError(utils.T(Localizer(c), "error_csrf"), nil).
				WithContext("reason", "mismatch")
		}

		c.Locals(cfg.ContextKey, cookieToken)
		return c.Next()
	}
}

func issueToken(c *fiber.Ctx, cfg CSRFConfig) string {
	token := generateToken(cfg.TokenLength)
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		MaxAge:   cfg.CookieMaxAge,
		HTTPOnly: true,
		SameSite: "Strict",
		Secure:   cfg.CookieSecure,
	})
	return token
}

// generateToken generates a random token
func generateToken(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(b)
}

// tokensEqual performs constant-time comparison of tokens
func tokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
