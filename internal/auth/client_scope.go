package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// ClientCookie names the cookie carrying the client scope id.
	ClientCookie = "sid"

	clientKey       = "client_id"
	clientCookieTTL = 365 * 24 * time.Hour
)

// ClientScope assigns every caller a stable client id, issuing the cookie on first contact.
func ClientScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(ClientCookie)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     ClientCookie,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().Add(clientCookieTTL),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(clientKey, id)
		return c.Next()
	}
}

// ClientIDFromContext returns the id set by ClientScope.
func ClientIDFromContext(c *fiber.Ctx) string {
	id, _ := c.Locals(clientKey).(string)
	return id
}
