package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicport/portal/middleware"
	"github.com/clinicport/portal/models"
)

// Register wires the HTTP surface. Session restore runs on every request;
// guards run per route before the handler, never after a mutation.
func Register(app *fiber.App, h *Handler, auth *middleware.Auth) {
	app.Use(auth.Restore)

	// Public
	app.Post("/register", h.RegisterPatient)
	app.Post("/doctor/register", h.RegisterPractitioner)
	app.Post("/admin/register", h.RegisterAdministrator)
	app.Post("/login", h.LoginPatient)
	app.Post("/doctor/login", h.LoginPractitioner)
	app.Post("/admin/login", h.LoginAdministrator)
	app.Get("/logout", h.Logout)
	app.Get("/services", h.Services)
	app.Get("/products", h.ListProducts)

	// Any authenticated kind
	requireAuth := middleware.RequireAuthenticated(models.KindPatient)
	app.Get("/profile", requireAuth, h.Profile)
	app.Post("/profile/edit", requireAuth, h.ProfileEdit)
	app.Get("/profile/delete/:id", requireAuth, h.ProfileDelete)

	// Patient only
	patient := middleware.RequireKind(models.KindPatient)
	app.Post("/addToCart", patient, h.AddToCart)
	app.Get("/cart", patient, h.GetCart)
	app.Get("/checkout", patient, h.CheckoutPreview)
	app.Post("/checkout", patient, h.CheckoutSubmit)
	app.Get("/orders", patient, h.Orders)
	app.Get("/schedule/test", patient, h.ScheduleTestForm)
	app.Post("/schedule/test", patient, h.ScheduleTest)
	app.Get("/schedule/doctor", patient, h.ScheduleDoctorForm)
	app.Post("/schedule/doctor", patient, h.ScheduleDoctor)
	app.Get("/appointments/tests", patient, h.TestAppointments)
	app.Get("/appointments/doctors", patient, h.DoctorAppointments)

	// Administrator only
	admin := middleware.RequireKind(models.KindAdministrator)
	app.Get("/admin/addTest", admin, h.AdminTests)
	app.Post("/admin/addTest", admin, h.AddTest)
	app.Get("/admin/editTest", admin, h.AdminTests)
	app.Get("/admin/editTest/edit/:id", admin, h.GetTest)
	app.Post("/admin/editTest/edit/:id", admin, h.EditTest)
	app.Get("/admin/editTest/delete/:id", admin, h.DeleteTest)
	app.Post("/admin/products", admin, h.AddProduct)
	app.Post("/admin/products/:id", admin, h.EditProduct)
	app.Get("/admin/products/delete/:id", admin, h.DeleteProduct)
}
