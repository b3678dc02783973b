package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/config"
	authhandler "github.com/rashiiddsr/kasir-cafe-backend/internal/delivery/http/handler/auth"
	chkhandler "github.com/rashiiddsr/kasir-cafe-backend/internal/delivery/http/handler/checkout"
	dischandler "github.com/rashiiddsr/kasir-cafe-backend/internal/delivery/http/handler/discount"
	prodhandler "github.com/rashiiddsr/kasir-cafe-backend/internal/delivery/http/handler/product"
	schandler "github.com/rashiiddsr/kasir-cafe-backend/internal/delivery/http/handler/savedcart"
	sesshandler "github.com/rashiiddsr/kasir-cafe-backend/internal/delivery/http/handler/session"
	"github.com/rashiiddsr/kasir-cafe-backend/internal/delivery/middleware"
	"github.com/rashiiddsr/kasir-cafe-backend/internal/repository/postgres"
	authuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/auth"
	chkuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/checkout"
	discuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/discount"
	produc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/product"
	scuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/savedcart"
	sessuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/session"
)

func RegisterRoutes(app *fiber.App, cfg config.Config, db *pgxpool.Pool) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	api := app.Group("/api")

	// Auth wiring
	operatorRepo := postgres.NewOperatorRepo(db)
	operatorFinder := &operatorFinderAdapter{repo: operatorRepo}
	loginUC := authuc.NewOperatorLoginUsecase(operatorFinder, cfg.JWTSecret, cfg.JWTExpiresMinutes)
	loginHandler := authhandler.NewOperatorLoginHandler(loginUC)
	meHandler := authhandler.NewOperatorMeHandler()

	// Public route, rate-limited against credential stuffing
	api.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	}), loginHandler.Handle)

	jwtMW := middleware.NewJWTMiddleware(cfg.JWTSecret)
	protected := api.Group("", jwtMW.Protect())

	protected.Get("/me", meHandler.Handle)

	// Catalog wiring
	productRepo := postgres.NewProductRepo(db)
	productUC := produc.New(postgres.NewProductStoreAdapter(productRepo))
	productH := prodhandler.New(productUC)

	// Discount wiring
	discountRepo := postgres.NewDiscountRepo(db)
	discountStore := postgres.NewDiscountStoreAdapter(discountRepo)
	productLookup := postgres.NewProductLookupAdapter(productRepo)
	discountUC := discuc.New(discountStore, productLookup)
	discountH := dischandler.New(discountUC)

	// Checkout wiring
	checkoutRepo := postgres.NewCheckoutRepo(db)
	checkoutStore := postgres.NewCheckoutStoreAdapter(checkoutRepo, discountStore, db)
	checkoutUC := chkuc.New(checkoutStore)
	checkoutH := chkhandler.New(checkoutUC)

	// Cashier session wiring
	loc := cfg.Location()
	sessionRepo := postgres.NewSessionRepo(db)
	sessionUC := sessuc.New(postgres.NewSessionStoreAdapter(sessionRepo), loc)
	sessionH := sesshandler.New(sessionUC, loc)

	// Saved cart wiring
	savedCartUC := scuc.New(postgres.NewSavedCartRepo(db))
	savedCartH := schandler.New(savedCartUC)

	// Catalog routes
	protected.Get("/products", productH.List)
	protected.Get("/products/:id", productH.GetByID)

	// Discount routes
	protected.Post("/discounts", discountH.Create)
	protected.Get("/discounts", discountH.List)
	protected.Post("/discounts/evaluate", discountH.Evaluate)
	protected.Get("/discounts/:id", discountH.GetByID)
	// Update is a full-object replace, so PUT, not PATCH: a partial body
	// would silently null the omitted fields (stock above all).
	protected.Put("/discounts/:id", discountH.Update)
	protected.Delete("/discounts/:id", discountH.Delete)

	// Transaction routes
	protected.Post("/transactions", checkoutH.Complete)
	protected.Get("/transactions", checkoutH.List)
	protected.Get("/transactions/:id", checkoutH.GetByID)
	protected.Post("/transactions/:id/void", checkoutH.Void)

	// Cashier session routes
	protected.Post("/sessions/open", sessionH.Open)
	protected.Get("/sessions/status", sessionH.Status)
	protected.Post("/sessions/:id/close", sessionH.Close)

	// Saved cart routes
	protected.Post("/saved-carts", savedCartH.Save)
	protected.Get("/saved-carts", savedCartH.List)
	protected.Delete("/saved-carts/:id", savedCartH.Delete)
}

type operatorFinderAdapter struct {
	repo *postgres.OperatorRepo
}

func (a *operatorFinderAdapter) FindByUsername(ctx context.Context, username string) (*authuc.Operator, error) {
	r, err := a.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &authuc.Operator{
		ID:           r.ID,
		Username:     r.Username,
		Name:         r.Name,
		Role:         r.Role,
		PasswordHash: r.PasswordHash,
		IsActive:     r.IsActive,
	}, nil
}
