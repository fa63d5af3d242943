package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskboard-pm/apiserver/config"
	"github.com/taskboard-pm/apiserver/internal/apierr"
	"github.com/taskboard-pm/apiserver/internal/auth"
	"github.com/taskboard-pm/apiserver/internal/cache"
	"github.com/taskboard-pm/apiserver/internal/db"
	"github.com/taskboard-pm/apiserver/internal/events"
	"github.com/taskboard-pm/apiserver/internal/handlers"
	"github.com/taskboard-pm/apiserver/internal/logger"
	"github.com/taskboard-pm/apiserver/internal/middleware"
	"github.com/taskboard-pm/apiserver/internal/mq"
	"github.com/taskboard-pm/apiserver/internal/services"
	"github.com/taskboard-pm/apiserver/internal/storage"
	"github.com/taskboard-pm/apiserver/internal/store"
	"github.com/taskboard-pm/apiserver/internal/validation"
)

const requestTimeout = 60 * time.Second

// Server owns the HTTP server and every shared resource it was built with.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *logger.Logger

	db      *sql.DB
	redis   *redis.Client
	objects storage.ObjectStorage
	broker  mq.Backend
	limiter *middleware.RateLimiter
	done    chan struct{}
}

// New connects to every configured backend and wires the routes. Redis,
// object storage and the message queue are optional.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (_ *Server, err error) {
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	tokens, err := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return nil, err
	}

	s := &Server{log: log, done: make(chan struct{})}
	defer func() {
		if err != nil {
			s.closeResources(ctx)
		}
	}()

	if s.db, err = db.Open(ctx, cfg.Database); err != nil {
		return nil, err
	}

	userRepo := store.NewUserRepository(s.db)
	permissionRepo := store.NewPermissionRepository(s.db)

	var (
		checker     middleware.PermissionChecker = permissionRepo
		invalidator services.CacheInvalidator
	)
	if cfg.Redis.Addr != "" {
		if s.redis, err = cache.NewRedisClient(ctx, cfg.Redis); err != nil {
			return nil, err
		}
		cached := cache.NewPermissions(s.redis, permissionRepo, cfg.Redis.TTL)
		checker, invalidator = cached, cached
	}

	if s.objects, err = storage.Open(ctx, cfg.Storage); err != nil {
		return nil, err
	}
	if s.broker, err = mq.Open(ctx, cfg.MQ); err != nil {
		return nil, err
	}
	activity := events.NewPublisher(s.broker, cfg.MQ.ActivityChannel)

	userService := services.NewUserService(userRepo, tokens, s.objects, invalidator)
	boardRepo, cardRepo := store.NewBoardRepository(s.db), store.NewCardRepository(s.db)
	boardMembers, cardMembers := store.NewBoardMemberRepository(s.db), store.NewCardMemberRepository(s.db)
	boardService := services.NewBoardService(boardRepo, boardMembers, activity)
	listService := services.NewListService(store.NewListRepository(s.db), activity)
	cardService := services.NewCardService(cardRepo, cardMembers, activity)
	boardMemberService := services.NewBoardMemberService(boardMembers, boardRepo)
	cardMemberService := services.NewCardMemberService(cardMembers, cardRepo)
	trackingService := services.NewTimeTrackingService(cardRepo, store.NewTimeTrackingRepository(s.db), activity)
	organization := handlers.NewOrganizationHandler(
		services.NewCompanyService(store.NewCompanyRepository(s.db)),
		services.NewDepartmentService(store.NewDepartmentRepository(s.db)),
	)
	access := handlers.NewAccessHandler(
		services.NewRoleService(store.NewRoleRepository(s.db), invalidator),
		services.NewPermissionService(permissionRepo, invalidator),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middleware.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	s.limiter = middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)

	guards := handlers.Guards{
		Validator: validation.Default().WithMaxBodyBytes(cfg.MaxJSONBytes),
		Verify:    middleware.VerifyToken(tokens),
		Admin:     middleware.RequireAdmin(userService),
		Permission: func(name string) middleware.Policy {
			return middleware.RequirePermission(checker, name)
		},
	}

	router := chi.NewRouter()
	router.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.RequestLogger(log),
		middleware.Recoverer,
		metrics.Instrument,
		middleware.CORS(cfg.CORS.AllowedOrigins),
		chimw.Timeout(requestTimeout),
	)
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, apierr.NotFound("Route not found"))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, apierr.New(http.StatusMethodNotAllowed, "Method not allowed"))
	})

	router.Get("/healthz", handlers.Healthz)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Route("/v1", func(r chi.Router) {
		r.Get("/status", handlers.Status)
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, userService, guards, s.limiter.Stage())
		})
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, userService, guards, cfg.AvatarBytes)
		})
		r.Route("/boards", func(r chi.Router) {
			handlers.BoardRouter(r, boardService, boardMemberService, guards)
		})
		r.Route("/lists", func(r chi.Router) {
			handlers.ListRouter(r, listService, guards)
		})
		r.Route("/cards", func(r chi.Router) {
			handlers.CardRouter(r, cardService, cardMemberService, guards)
		})
		r.Route("/tracking", func(r chi.Router) {
			handlers.TrackingRouter(r, trackingService, guards)
		})
		r.Route("/companies", func(r chi.Router) {
			handlers.CompanyRouter(r, organization, guards)
		})
		r.Route("/departments", func(r chi.Router) {
			handlers.DepartmentRouter(r, organization, guards)
		})
		r.Route("/roles", func(r chi.Router) {
			handlers.RoleRouter(r, access, guards)
		})
		r.Route("/permissions", func(r chi.Router) {
			handlers.PermissionRouter(r, access, guards)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	s.router = router
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown. It returns nil after a graceful stop.
func (s *Server) Start() error {
	go s.limiter.Run(s.done)

	s.log.Info(context.Background(), "http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and then releases every backend.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	close(s.done)
	s.closeResources(ctx)
	return err
}

func (s *Server) closeResources(ctx context.Context) {
	if s.broker != nil {
		if err := s.broker.Close(); err != nil {
			s.log.Warn(ctx, "failed to close message queue", zap.Error(err))
		}
	}
	if s.objects != nil {
		if err := s.objects.Close(); err != nil {
			s.log.Warn(ctx, "failed to close object storage", zap.Error(err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.Warn(ctx, "failed to close redis", zap.Error(err))
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Warn(ctx, "failed to close database", zap.Error(err))
		}
	}
}
