package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicport/portal/middleware"
	"github.com/clinicport/portal/models"
)

// Profile returns the current principal in its kind-appropriate shape; the
// credential hash never serializes.
func (h *Handler) Profile(c *fiber.Ctx) error {
	return c.JSON(middleware.Current(c))
}

func (h *Handler) ProfileEdit(c *fiber.Ctx) error {
	principal := middleware.Current(c)

	var upd models.ProfileUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse request"})
	}

	principals, ok := h.registry.Store(principal.Kind)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	ctx, cancel := requestCtx()
	defer cancel()

	if err := principals.Update(ctx, principal.ID.Hex(), upd); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "profile updated"})
}

// ProfileDelete removes the caller's own account and the session with it.
func (h *Handler) ProfileDelete(c *fiber.Ctx) error {
	principal := middleware.Current(c)
	if c.Params("id") != principal.ID.Hex() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	principals, ok := h.registry.Store(principal.Kind)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	ctx, cancel := requestCtx()
	defer cancel()

	if err := principals.Delete(ctx, principal.ID.Hex()); err != nil {
		return h.fail(c, err)
	}
	if sessionID := middleware.SessionID(c); sessionID != "" {
		_ = h.sessions.Delete(ctx, sessionID)
	}
	h.clearSessionCookie(c)
	return c.Redirect(principal.Kind.LoginPath(), fiber.StatusFound)
}
