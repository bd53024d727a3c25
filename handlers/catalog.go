package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicport/portal/models"
)

type testRequest struct {
	Name string  `json:"name" form:"name"`
	Cost float64 `json:"cost" form:"cost"`
}

// Services lists the lab-test catalog.
func (h *Handler) Services(c *fiber.Ctx) error {
	ctx, cancel := requestCtx()
	defer cancel()

	tests, err := h.tests.List(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	if tests == nil {
		tests = []models.Test{}
	}
	return c.JSON(fiber.Map{"tests": tests})
}

// AdminTests backs both admin catalog pages with the current test list.
func (h *Handler) AdminTests(c *fiber.Ctx) error {
	return h.Services(c)
}

func (h *Handler) AddTest(c *fiber.Ctx) error {
	var req testRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse request"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	ctx, cancel := requestCtx()
	defer cancel()

	test, err := h.tests.Create(ctx, models.Test{Name: req.Name, Cost: req.Cost})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(test)
}

func (h *Handler) GetTest(c *fiber.Ctx) error {
	ctx, cancel := requestCtx()
	defer cancel()

	test, err := h.tests.Get(ctx, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(test)
}

func (h *Handler) EditTest(c *fiber.Ctx) error {
	var req testRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse request"})
	}

	ctx, cancel := requestCtx()
	defer cancel()

	if err := h.tests.Update(ctx, c.Params("id"), models.Test{Name: req.Name, Cost: req.Cost}); err != nil {
		return h.fail(c, err)
	}
	return c.Redirect("/admin/editTest", fiber.StatusFound)
}

func (h *Handler) DeleteTest(c *fiber.Ctx) error {
	ctx, cancel := requestCtx()
	defer cancel()

	if err := h.tests.Delete(ctx, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.Redirect("/admin/editTest", fiber.StatusFound)
}

type productRequest struct {
	Name        string  `json:"name" form:"name"`
	Cost        float64 `json:"cost" form:"cost"`
	Image       string  `json:"image" form:"image"`
	Description string  `json:"description" form:"description"`
}

// ListProducts lists the pharmacy catalog backing the cart surface.
func (h *Handler) ListProducts(c *fiber.Ctx) error {
	ctx, cancel := requestCtx()
	defer cancel()

	products, err := h.products.List(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(fiber.Map{"products": products})
}

func (h *Handler) AddProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse request"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	ctx, cancel := requestCtx()
	defer cancel()

	product, err := h.products.Create(ctx, models.Product{
		Name:        req.Name,
		Cost:        req.Cost,
		Image:       req.Image,
		Description: req.Description,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *Handler) EditProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse request"})
	}

	ctx, cancel := requestCtx()
	defer cancel()

	err := h.products.Update(ctx, c.Params("id"), models.Product{
		Name:        req.Name,
		Cost:        req.Cost,
		Image:       req.Image,
		Description: req.Description,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "product updated"})
}

func (h *Handler) DeleteProduct(c *fiber.Ctx) error {
	ctx, cancel := requestCtx()
	defer cancel()

	if err := h.products.Delete(ctx, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.Redirect("/products", fiber.StatusFound)
}
