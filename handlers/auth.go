package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/clinicport/portal/middleware"
	"github.com/clinicport/portal/models"
)

type registerRequest struct {
	Username string  `json:"username" form:"username"`
	Password string  `json:"password" form:"password"`
	Name     string  `json:"name" form:"name"`
	DOB      string  `json:"dob" form:"dob"`
	Gender   string  `json:"gender" form:"gender"`
	Address  string  `json:"address" form:"address"`
	PhoneNo  string  `json:"phoneNo" form:"phoneNo"`
	Fees     float64 `json:"fees" form:"fees"`
	Category string  `json:"category" form:"category"`
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) RegisterPatient(c *fiber.Ctx) error {
	return h.register(c, models.KindPatient)
}

func (h *Handler) RegisterPractitioner(c *fiber.Ctx) error {
	return h.register(c, models.KindPractitioner)
}

func (h *Handler) RegisterAdministrator(c *fiber.Ctx) error {
	return h.register(c, models.KindAdministrator)
}

func (h *Handler) register(c *fiber.Ctx, kind models.Kind) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse request"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username and password are required"})
	}

	principal := models.Principal{
		Username: req.Username,
		Name:     req.Name,
		DOB:      req.DOB,
		Gender:   req.Gender,
		Address:  req.Address,
		PhoneNo:  req.PhoneNo,
	}
	if kind == models.KindPractitioner {
		principal.Fees = req.Fees
		principal.Category = req.Category
	}
	if kind == models.KindAdministrator {
		// Administrators carry no profile beyond a phone number.
		principal.Name = ""
		principal.DOB = ""
		principal.Gender = ""
		principal.Address = ""
	}

	principals, ok := h.registry.Store(kind)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	ctx, cancel := requestCtx()
	defer cancel()

	id, err := principals.Register(ctx, principal, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.establishSession(c, ctx, kind, id); err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       id,
		"username": req.Username,
		"kind":     kind,
	})
}

func (h *Handler) LoginPatient(c *fiber.Ctx) error {
	return h.login(c, models.KindPatient)
}

func (h *Handler) LoginPractitioner(c *fiber.Ctx) error {
	return h.login(c, models.KindPractitioner)
}

func (h *Handler) LoginAdministrator(c *fiber.Ctx) error {
	return h.login(c, models.KindAdministrator)
}

// login verifies against exactly the store the route's kind selects. A
// username living in some other kind's store is indistinguishable from a
// wrong password here.
func (h *Handler) login(c *fiber.Ctx, kind models.Kind) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse request"})
	}

	principals, ok := h.registry.Store(kind)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	ctx, cancel := requestCtx()
	defer cancel()

	id, err := principals.Verify(ctx, req.Username, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.establishSession(c, ctx, kind, id); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"id":       id,
		"username": req.Username,
		"kind":     kind,
	})
}

// Logout always succeeds, even for a stale or missing token.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if sessionID := middleware.SessionID(c); sessionID != "" {
		ctx, cancel := requestCtx()
		defer cancel()
		_ = h.sessions.Delete(ctx, sessionID)
	}
	h.clearSessionCookie(c)
	return c.Redirect("/", fiber.StatusFound)
}

func (h *Handler) establishSession(c *fiber.Ctx, ctx context.Context, kind models.Kind, principalID string) error {
	now := time.Now()
	sess := models.Session{
		ID:          uuid.NewString(),
		Kind:        kind,
		PrincipalID: principalID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(h.sessionIdle),
	}
	if err := h.sessions.Create(ctx, sess); err != nil {
		return err
	}
	token, err := middleware.SignSessionID(h.sessionKey, sess.ID)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return nil
}

func (h *Handler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
