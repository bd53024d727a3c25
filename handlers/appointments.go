package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicport/portal/middleware"
	"github.com/clinicport/portal/models"
)

type scheduleRequest struct {
	Name string `json:"name" form:"name"`
	Date string `json:"date" form:"date"`
	Time string `json:"time" form:"time"`
}

// ScheduleTestForm lists the bookable lab tests.
func (h *Handler) ScheduleTestForm(c *fiber.Ctx) error {
	return h.Services(c)
}

// ScheduleDoctorForm lists the practitioners with fee and specialty.
func (h *Handler) ScheduleDoctorForm(c *fiber.Ctx) error {
	principals, ok := h.registry.Store(models.KindPractitioner)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	ctx, cancel := requestCtx()
	defer cancel()

	doctors, err := principals.List(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	if doctors == nil {
		doctors = []models.Principal{}
	}
	return c.JSON(fiber.Map{"doctors": doctors})
}

func (h *Handler) ScheduleTest(c *fiber.Ctx) error {
	principal := middleware.Current(c)

	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse request"})
	}
	if req.Name == "" || req.Date == "" || req.Time == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, date and time are required"})
	}

	ctx, cancel := requestCtx()
	defer cancel()

	appointment, err := h.appointments.CreateTestAppointment(ctx, models.TestAppointment{
		Name:   req.Name,
		Date:   req.Date,
		Time:   req.Time,
		UserID: principal.ID.Hex(),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

func (h *Handler) ScheduleDoctor(c *fiber.Ctx) error {
	principal := middleware.Current(c)

	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse request"})
	}
	if req.Name == "" || req.Date == "" || req.Time == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, date and time are required"})
	}

	ctx, cancel := requestCtx()
	defer cancel()

	appointment, err := h.appointments.CreateDoctorAppointment(ctx, models.DoctorAppointment{
		Name:   req.Name,
		Date:   req.Date,
		Time:   req.Time,
		UserID: principal.ID.Hex(),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

func (h *Handler) TestAppointments(c *fiber.Ctx) error {
	principal := middleware.Current(c)

	ctx, cancel := requestCtx()
	defer cancel()

	appointments, err := h.appointments.ListTestAppointments(ctx, principal.ID.Hex())
	if err != nil {
		return h.fail(c, err)
	}
	if appointments == nil {
		appointments = []models.TestAppointment{}
	}
	return c.JSON(fiber.Map{"appointments": appointments})
}

func (h *Handler) DoctorAppointments(c *fiber.Ctx) error {
	principal := middleware.Current(c)

	ctx, cancel := requestCtx()
	defer cancel()

	appointments, err := h.appointments.ListDoctorAppointments(ctx, principal.ID.Hex())
	if err != nil {
		return h.fail(c, err)
	}
	if appointments == nil {
		appointments = []models.DoctorAppointment{}
	}
	return c.JSON(fiber.Map{"appointments": appointments})
}
