package middleware

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/clinicport/portal/models"
	"github.com/clinicport/portal/store"
)

// CookieName is the session cookie.
const CookieName = "portal_session"

const (
	principalKey = "principal"
	sessionKey   = "sessionID"
)

// Auth restores sessions and gates routes. Restore runs on every request;
// the guards run per route group after it.
type Auth struct {
	Sessions    store.SessionStore
	Registry    *store.Registry
	Secret      []byte
	IdleTimeout time.Duration
}

// Restore resolves the session cookie to a principal and stashes it in the
// request locals, sliding the session's expiry. Every failure mode resolves
// to an anonymous request, never an error: a missing or forged cookie, an
// expired session, and a session whose principal record has since been
// deleted all fall through to c.Next() with no principal set. The last case
// additionally drops the orphaned session.
func (a *Auth) Restore(c *fiber.Ctx) error {
	raw := c.Cookies(CookieName)
	if raw == "" {
		return c.Next()
	}
	sessionID, ok := ParseSessionID(a.Secret, raw)
	if !ok {
		return c.Next()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sess, err := a.Sessions.FindAndTouch(ctx, sessionID, time.Now().Add(a.IdleTimeout))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("session restore: %v", err)
		}
		return c.Next()
	}

	principals, ok := a.Registry.Store(sess.Kind)
	if !ok {
		return c.Next()
	}
	principal, err := principals.FindByID(ctx, sess.PrincipalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The record behind the session is gone; the session goes with it.
			_ = a.Sessions.Delete(ctx, sessionID)
		} else {
			log.Printf("session restore: %v", err)
		}
		return c.Next()
	}

	c.Locals(principalKey, principal)
	c.Locals(sessionKey, sessionID)
	return c.Next()
}

// Current returns the request's principal, or nil when anonymous.
func Current(c *fiber.Ctx) *models.Principal {
	principal, _ := c.Locals(principalKey).(*models.Principal)
	return principal
}

// SessionID returns the request's session id, or "" when anonymous.
func SessionID(c *fiber.Ctx) string {
	sessionID, _ := c.Locals(sessionKey).(string)
	return sessionID
}

// RequireAuthenticated passes any authenticated principal through and
// redirects anonymous requests to the login page for the kind the route
// serves. The redirect is a navigable outcome, not an error.
func RequireAuthenticated(kind models.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Current(c) == nil {
			return c.Redirect(kind.LoginPath(), fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireKind additionally demands the principal's kind. A wrong-kind
// authenticated principal is forbidden, not redirected: it is a different
// failure than having no session at all.
func RequireKind(kind models.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := Current(c)
		if principal == nil {
			return c.Redirect(kind.LoginPath(), fiber.StatusFound)
		}
		if principal.Kind != kind {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		return c.Next()
	}
}
