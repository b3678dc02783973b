package app

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/config"
	"github.com/rashiiddsr/kasir-cafe-backend/internal/db"
	httpdelivery "github.com/rashiiddsr/kasir-cafe-backend/internal/delivery/http"
)

type App struct {
	f   *fiber.App
	cfg config.Config
}

func New() *App {
	cfg := config.Load()

	pool, err := db.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	f := fiber.New(fiber.Config{
		AppName: "kasir-cafe-backend",
	})

	f.Use(recover.New())
	f.Use(logger.New())
	f.Use(cors.New())

	httpdelivery.RegisterRoutes(f, cfg, pool)

	return &App{f: f, cfg: cfg}
}

func (a *App) Run() error {
	return a.f.Listen(":" + a.cfg.Port)
}
