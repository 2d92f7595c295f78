package wire

import (
	"fmt"
	"net/http"

	"barbershop-booking/internal/adaptor"
	"barbershop-booking/internal/data/directory"
	"barbershop-booking/internal/data/repository"
	"barbershop-booking/internal/usecase"
	"barbershop-booking/pkg/database"
	"barbershop-booking/pkg/middleware"
	"barbershop-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Deps are the long-lived clients the application is built from. Redis is optional.
type Deps struct {
	DB     database.PgxIface
	Redis  *redis.Client
	Repo   *repository.Repository
	Config *utils.Config
	Log    *zap.Logger
}

// App holds the assembled HTTP surface
type App struct {
	Router  *chi.Mux
	Handler http.Handler
}

// Wiring builds services, handlers and routes
func Wiring(deps Deps) (*App, error) {
	loc, err := deps.Config.App.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", deps.Config.App.Timezone, err)
	}

	clientIP, err := middleware.NewClientIP(deps.Config.RateLimit.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("load RATE_LIMIT_TRUSTED_PROXIES: %w", err)
	}

	dir := newDirectory(deps)

	service := usecase.NewService(deps.Repo, dir, usecase.Options{
		SlotGranularityMinutes: deps.Config.Booking.SlotGranularityMinutes,
		Location:               loc,
	}, deps.Log)
	handler := adaptor.NewHandler(service, deps.Log)

	router := setupRouter(handler, clientIP, deps)

	return &App{
		Router:  router,
		Handler: otelhttp.NewHandler(router, deps.Config.App.Name),
	}, nil
}

func newDirectory(deps Deps) directory.Client {
	cfg := deps.Config.Directory
	dir := directory.NewHTTPClient(cfg.BaseURL, cfg.Timeout, deps.Log)
	if deps.Redis == nil || cfg.CacheTTL <= 0 {
		deps.Log.Info("Directory cache disabled")
		return dir
	}
	return directory.NewCachedClient(dir, deps.Redis, cfg.CacheTTL, deps.Log)
}

// setupRouter configures the chi router
func setupRouter(handler *adaptor.Handler, clientIP *middleware.ClientIP, deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger(deps.Log))
	r.Use(middleware.Recover(deps.Log))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.NewRateLimiter(deps.Config.RateLimit.RPS, deps.Config.RateLimit.Burst, clientIP, deps.Log).Middleware())

	wireAvailability(r, handler.Availability)
	wireBooking(r, handler.Booking, deps.Repo, deps.Log)
	wireHealth(r, deps)

	return r
}
