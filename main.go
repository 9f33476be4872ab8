package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/handlers"
	"inventory/internal/middleware"
	"inventory/internal/repositories"
	"inventory/internal/services"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// A pool that cannot be built or pinged is process-fatal; there is no
	// mid-life recovery path for broken pool state.
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if len(os.Args) > 1 {
		runSubcommand(ctx, os.Args[1], cfg, pool)
		return
	}

	productRepo := repositories.NewPostgresProductRepository(pool)
	productService := services.NewProductService(productRepo)
	productHandler := handlers.NewProductHandler(productService)

	app := newApp(productHandler)

	log.Printf("Starting server on port %s (env: %s)", cfg.Port, cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.Port); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// newApp builds the Fiber app: middleware, product routes, the welcome route
// and the static front-end.
func newApp(productHandler *handlers.ProductHandler) *fiber.App {
	app := fiber.New()

	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${method} ${path}\n",
	}))

	productHandler.RegisterRoutes(app)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Cloud Application Project",
			"status":  "success",
		})
	})

	// Browser front-end consuming the API above.
	app.Static("/app", "./public")

	return app
}

func runSubcommand(ctx context.Context, cmd string, cfg *config.Config, pool *database.Pool) {
	switch cmd {
	case "migrate":
		if err := database.Migrate(ctx, pool, cfg.MigrationsPath); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed successfully")
	case "check":
		if err := database.Check(ctx, pool); err != nil {
			log.Fatalf("Database check failed: %v", err)
		}
	default:
		log.Fatalf("Unknown command %q (expected: migrate, check)", cmd)
	}
}
