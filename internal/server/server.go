// Package server assembles the HTTP API: the gin engine, the guard
// middleware chain and the route table with its rate limit presets.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/fittrack/internal/auth"
	"github.com/fittrack/fittrack/internal/csrf"
	"github.com/fittrack/fittrack/internal/observability"
	"github.com/fittrack/fittrack/internal/ratelimit"
	"github.com/fittrack/fittrack/internal/server/handlers"
	"github.com/fittrack/fittrack/internal/server/middleware"
)

// Options holds everything the server needs. All fields are required
// unless noted otherwise.
type Options struct {
	Logger        observability.Logger
	Metrics       *observability.Metrics
	Handlers      *handlers.Handlers
	Authenticator auth.Authenticator
	CSRFManager   *csrf.Manager
	Limiters      *ratelimit.Registry

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server is the fittrack HTTP server.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     observability.Logger
}

// New builds the server and registers all routes.
func New(addr string, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	s := &Server{
		engine: engine,
		logger: opts.Logger,
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
		},
	}

	s.registerRoutes(opts)
	return s
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start runs the listener until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server starting",
		observability.String("addr", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes(opts Options) {
	h := opts.Handlers

	s.engine.Use(
		middleware.Recovery(opts.Logger),
		middleware.RequestID(),
		middleware.RequestLogging(opts.Logger),
		middleware.SecurityHeaders(),
		middleware.Metrics(opts.Metrics),
	)

	s.engine.GET("/healthz", h.Health)
	s.engine.GET("/readyz", h.Ready)

	// Guards run in a fixed order on every API route: CSRF, rate
	// limit, authentication. Handlers authorize per resource.
	api := s.engine.Group("/api")
	api.Use(middleware.CSRF(opts.CSRFManager, opts.Metrics, opts.Logger))

	rl := func(preset string) gin.HandlerFunc {
		keyFunc := ratelimit.PerPresetKeyFunc(preset, ratelimit.IPKeyFunc)
		return middleware.RateLimit(opts.Limiters, preset, keyFunc, opts.Metrics, opts.Logger)
	}
	authn := middleware.Authenticate(opts.Authenticator, opts.Metrics, opts.Logger)

	// Session endpoints carry the strict auth preset and are open to
	// unauthenticated callers.
	api.GET("/csrf", rl(ratelimit.PresetGeneral), h.CSRFToken)
	api.POST("/auth/signup", rl(ratelimit.PresetAuth), h.Signup)
	api.POST("/auth/login", rl(ratelimit.PresetAuth), h.Login)

	// Persons.
	api.GET("/persons", rl(ratelimit.PresetRead), authn, h.ListPersons)
	api.POST("/persons", rl(ratelimit.PresetWrite), authn, h.CreatePerson)
	api.DELETE("/persons", rl(ratelimit.PresetDelete), authn, h.DeletePerson)

	// Pantry.
	api.GET("/pantry", rl(ratelimit.PresetRead), authn, h.ListPantry)
	api.POST("/pantry", rl(ratelimit.PresetWrite), authn, h.CreatePantryItem)
	api.PUT("/pantry", rl(ratelimit.PresetWrite), authn, h.UpdatePantryItem)
	api.DELETE("/pantry", rl(ratelimit.PresetDelete), authn, h.DeletePantryItem)

	// Workouts.
	api.GET("/workouts", rl(ratelimit.PresetRead), authn, h.ListWorkouts)
	api.POST("/workouts", rl(ratelimit.PresetWrite), authn, h.CreateWorkout)
	api.DELETE("/workouts", rl(ratelimit.PresetDelete), authn, h.DeleteWorkout)

	// Meals.
	api.GET("/meals", rl(ratelimit.PresetRead), authn, h.ListMeals)
	api.POST("/meals", rl(ratelimit.PresetWrite), authn, h.CreateMeal)
	api.DELETE("/meals", rl(ratelimit.PresetDelete), authn, h.DeleteMeal)

	// Weights.
	api.GET("/weights", rl(ratelimit.PresetRead), authn, h.ListWeights)
	api.POST("/weights", rl(ratelimit.PresetWrite), authn, h.CreateWeight)
	api.DELETE("/weights", rl(ratelimit.PresetDelete), authn, h.DeleteWeight)

	// Recipes.
	api.GET("/recipes", rl(ratelimit.PresetRead), authn, h.ListRecipes)
	api.GET("/recipes/:id", rl(ratelimit.PresetRead), authn, h.GetRecipe)
	api.POST("/recipes", rl(ratelimit.PresetWrite), authn, h.CreateRecipe)
	api.DELETE("/recipes", rl(ratelimit.PresetDelete), authn, h.DeleteRecipe)

	// Food lookup and seeding.
	api.GET("/food-lookup", rl(ratelimit.PresetRead), authn, h.FoodLookup)
	api.POST("/seed", rl(ratelimit.PresetSeed), authn, h.Seed)
}
