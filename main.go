package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinicport/portal/config"
	"github.com/clinicport/portal/handlers"
	"github.com/clinicport/portal/middleware"
	"github.com/clinicport/portal/models"
	"github.com/clinicport/portal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DatabaseName)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatal(err)
	}

	// One credential store per principal kind; the registry mapping is fixed
	// for the life of the process.
	registry := store.NewRegistry(
		store.NewPrincipals(db, models.KindPatient, "users"),
		store.NewPrincipals(db, models.KindPractitioner, "doctors"),
		store.NewPrincipals(db, models.KindAdministrator, "admins"),
	)
	sessions := store.NewSessions(db)

	h := handlers.New(handlers.Config{
		Registry:     registry,
		Sessions:     sessions,
		Carts:        store.NewCarts(db),
		Orders:       store.NewOrders(db),
		Tests:        store.NewTests(db),
		Products:     store.NewProducts(db),
		Appointments: store.NewAppointments(db),
		SessionKey:   []byte(cfg.SessionKey),
		SessionIdle:  cfg.SessionIdle,
	})

	auth := &middleware.Auth{
		Sessions:    sessions,
		Registry:    registry,
		Secret:      []byte(cfg.SessionKey),
		IdleTimeout: cfg.SessionIdle,
	}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true,
	}))

	handlers.Register(app, h, auth)

	log.Fatal(app.Listen(":" + cfg.Port))
}
