package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/controllers"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/middleware"
	category "github.com/leviwaynedaily/red-carpet-distro-sub000/internal/categories"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/gate"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/icons"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/media"
	product "github.com/leviwaynedaily/red-carpet-distro-sub000/internal/products"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/settings"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/auth/session"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/config"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/metrics"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	readiness map[string]controllers.Pinger,
	limiter rateLimiter,
	sessions session.Checker,
	gateService gate.Service,
	settingsService settings.Service,
	productService product.Service,
	categoryService category.Service,
	mediaService media.Service,
	iconService icons.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	gatePolicy := middleware.NewGateRateLimitPolicy("gate", cfg.Gate.RateLimitWindow, cfg.Gate.RateLimitPerIP)
	maxUpload := cfg.Media.MaxUploadBytes()

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/manifest.json", controllers.PublicManifest(settingsService, logg))
	r.Get("/api/public/site", controllers.PublicSite(settingsService, logg))

	r.Route("/api/gate", func(r chi.Router) {
		r.With(middleware.GateRateLimit(gatePolicy, limiter, logg)).Post("/storefront", controllers.GateStorefront(gateService, logg))
		r.With(middleware.GateRateLimit(gatePolicy, limiter, logg)).Post("/admin", controllers.GateAdmin(gateService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.GateAuth(cfg.JWT, sessions, logg))
			r.Get("/session", controllers.GateSession())
			r.Post("/logout", controllers.GateLogout(gateService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.GateAuth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireGate(enums.GateRoleStorefront, logg))

		r.Get("/products", controllers.StorefrontProducts(productService, logg))
		r.Get("/products/{productId}", controllers.StorefrontProduct(productService, logg))
		r.Get("/categories", controllers.StorefrontCategories(categoryService, logg))
		r.Get("/welcome", controllers.StorefrontWelcome(settingsService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.GateAuth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireGate(enums.GateRoleAdmin, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(productService, logg))
			r.Post("/", controllers.AdminCreateProduct(productService, logg))
			r.Get("/{productId}", controllers.AdminGetProduct(productService, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(productService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(productService, logg))
			r.Post("/{productId}/media", controllers.AdminUploadProductMedia(productService, mediaService, maxUpload, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.StorefrontCategories(categoryService, logg))
			r.Post("/", controllers.AdminCreateCategory(categoryService, logg))
			r.Patch("/{categoryId}", controllers.AdminRenameCategory(categoryService, logg))
			r.Delete("/{categoryId}", controllers.AdminDeleteCategory(categoryService, logg))
		})
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.AdminGetSettings(settingsService, logg))
			r.Patch("/", controllers.AdminUpdateSettings(settingsService, logg))
			r.Put("/passwords", controllers.AdminSetPasswords(settingsService, logg))
			r.Post("/assets/{kind}", controllers.AdminUploadSiteAsset(settingsService, mediaService, maxUpload, logg))
		})
		r.Route("/media", func(r chi.Router) {
			r.Get("/", controllers.AdminListMedia(mediaService, logg))
			r.Post("/", controllers.AdminUploadMedia(mediaService, maxUpload, logg))
			r.Delete("/{mediaId}", controllers.AdminDeleteMedia(mediaService, logg))
		})
		r.Post("/pwa/icons", controllers.AdminRegeneratePWAIcons(iconService, maxUpload, logg))
	})

	return r
}
