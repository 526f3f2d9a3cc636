package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"agrotrust/internal/adapter/api"
	"agrotrust/internal/adapter/api/handler"
	apimiddleware "agrotrust/internal/adapter/api/middleware"
	"agrotrust/internal/adapter/api/router"
	"agrotrust/internal/adapter/repository"
	domainrepo "agrotrust/internal/domain/repository"
	"agrotrust/internal/domain/service"
	"agrotrust/internal/infrastructure/firebase"
	"agrotrust/internal/infrastructure/gemini"
	"agrotrust/internal/infrastructure/ratelimit"
	"agrotrust/internal/infrastructure/websocket"
	"agrotrust/internal/seed"
	"agrotrust/internal/usecase"
	"agrotrust/pkg/config"
	"agrotrust/pkg/logger"
)

type repositories struct {
	farmers    domainrepo.FarmerRepository
	rejections domainrepo.RejectionRepository
	products   domainrepo.ProductRepository
	orders     domainrepo.OrderRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Configure(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	var fbClients *firebase.Clients
	if cfg.FirebaseConfigured() {
		clients, err := firebase.NewClients(ctx, cfg, cfg.StorageBackend == config.StorageFirestore)
		if err != nil {
			return err
		}
		defer clients.Close()
		fbClients = clients
	} else if cfg.StorageBackend == config.StorageFirestore {
		return errors.New("firestore storage needs Firebase service account credentials")
	}

	repos, err := newRepositories(ctx, cfg, fbClients)
	if err != nil {
		return err
	}

	var generator service.TextGenerator
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("Advisory text generation disabled: %v", err)
		} else {
			logger.Info("Advisory text generation using model %s", client.Model())
			generator = client
		}
	} else {
		logger.Info("No API key configured, advisory features will use fallback text")
	}
	advisory := service.NewAdvisoryService(generator, cfg.AdvisoryTimeout)

	wsManager := websocket.NewManager()

	farmerUseCase := usecase.NewFarmerUseCase(repos.farmers, repos.rejections, wsManager)
	registrationUseCase := usecase.NewRegistrationUseCase(farmerUseCase)
	productUseCase := usecase.NewProductUseCase(repos.products, repos.farmers, advisory, wsManager)
	orderUseCase := usecase.NewOrderUseCase(repos.orders, repos.products, advisory, wsManager, cfg.EscrowHold)

	limiter := ratelimit.NewRateLimiter(map[string]ratelimit.Policy{
		ratelimit.ActionDescribeProduct: {PerMinute: cfg.AdvisoryRate, Burst: cfg.AdvisoryRate},
		ratelimit.ActionRunAudit:        {PerMinute: cfg.AdvisoryRate, Burst: cfg.AdvisoryRate},
		ratelimit.ActionRegister:        {PerMinute: 5, Burst: 5},
	})

	var verifier apimiddleware.TokenVerifier
	var devTokenHandler *handler.DevTokenHandler
	if fbClients != nil {
		authClient := firebase.NewFirebaseAuthClient(fbClients.Auth)
		verifier = authClient
		devTokenHandler = handler.NewDevTokenHandler(authClient)
	}
	authMiddleware := apimiddleware.NewAuthMiddleware(verifier, cfg.IsDevelopment())

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
			apimiddleware.HeaderUserID, apimiddleware.HeaderUserRole,
		},
	}))

	e.Validator = api.NewValidator()

	router.Setup(e, router.Handlers{
		Health:       handler.NewHealthHandler(cfg.StorageBackend, advisory),
		Farmer:       handler.NewFarmerHandler(farmerUseCase),
		Registration: handler.NewRegistrationHandler(registrationUseCase),
		Product:      handler.NewProductHandler(productUseCase),
		Order:        handler.NewOrderHandler(orderUseCase),
		Admin:        handler.NewAdminHandler(farmerUseCase, orderUseCase),
		WebSocket:    handler.NewWebSocketHandler(wsManager, cfg.AllowedOrigins),
		DevToken:     devTokenHandler,
	}, authMiddleware, limiter, cfg.Environment)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		wsManager.Run(gctx)
		return nil
	})
	g.Go(func() error {
		limiter.Run(gctx, 5*time.Minute)
		return nil
	})
	g.Go(func() error {
		return orderUseCase.RunAutoReleaseJob(gctx, cfg.AutoReleaseInterval)
	})
	g.Go(func() error {
		logger.Info("Starting server on port %s (%s, storage=%s)", cfg.ServerPort, cfg.Environment, cfg.StorageBackend)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newRepositories builds the configured storage backend. The in-memory
// backend starts from the embedded demo data; an empty Firestore project is
// seeded with the same data.
func newRepositories(ctx context.Context, cfg *config.Config, fbClients *firebase.Clients) (*repositories, error) {
	data, err := seed.Default()
	if err != nil {
		return nil, err
	}

	if cfg.StorageBackend == config.StorageMemory {
		logger.Info("Using in-memory storage with %d farmers, %d listings, %d orders",
			len(data.Farmers), len(data.Products), len(data.Orders))
		return &repositories{
			farmers:    repository.NewMemoryFarmerRepository(data.Farmers),
			rejections: repository.NewMemoryRejectionRepository(),
			products:   repository.NewMemoryProductRepository(data.Products),
			orders:     repository.NewMemoryOrderRepository(data.Orders),
		}, nil
	}

	client := fbClients.Firestore
	repos := &repositories{
		farmers:    repository.NewFirestoreFarmerRepository(client),
		rejections: repository.NewFirestoreRejectionRepository(client),
		products:   repository.NewFirestoreProductRepository(client),
		orders:     repository.NewFirestoreOrderRepository(client),
	}

	existing, err := repos.farmers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("check Firestore farmers: %w", err)
	}
	if len(existing) == 0 {
		if err := seedStore(ctx, repos, data); err != nil {
			return nil, err
		}
		logger.Info("Seeded empty Firestore project with demo data")
	}
	return repos, nil
}

func seedStore(ctx context.Context, repos *repositories, data *seed.Data) error {
	for i := range data.Farmers {
		if err := repos.farmers.Create(ctx, &data.Farmers[i]); err != nil {
			return fmt.Errorf("seed farmer %s: %w", data.Farmers[i].ID, err)
		}
	}
	for i := range data.Products {
		if err := repos.products.Create(ctx, &data.Products[i]); err != nil {
			return fmt.Errorf("seed listing %s: %w", data.Products[i].ID, err)
		}
	}
	for i := range data.Orders {
		if err := repos.orders.Create(ctx, &data.Orders[i]); err != nil {
			return fmt.Errorf("seed order %s: %w", data.Orders[i].ID, err)
		}
	}
	return nil
}
