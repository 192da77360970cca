package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SakshamTolani/ProductPro/internal/auth"
	"github.com/SakshamTolani/ProductPro/internal/service"
	"github.com/SakshamTolani/ProductPro/pkg/health"
	"github.com/SakshamTolani/ProductPro/pkg/middleware"
)

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(
	userService *service.UserService,
	productService *service.ProductService,
	reviewService *service.ReviewService,
	uploadService *service.UploadService,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing("productpro"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("productpro"))

	// Health check and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Token validator that bridges to our internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}

	authHandler := NewAuthHandler(userService, logger)
	productHandler := NewProductHandler(productService, logger)
	reviewHandler := NewReviewHandler(reviewService, logger)
	uploadHandler := NewUploadHandler(uploadService, logger)

	// Auth endpoints (public)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Product endpoints: reads are public, writes require auth.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))

			r.Put("/{id}/edit", reviewHandler.SubmitChange)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin"))

				r.Post("/", productHandler.CreateProduct)
				r.Delete("/{id}", productHandler.DeleteProduct)
			})
		})
	})

	// Review workflow endpoints (auth required)
	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/my", reviewHandler.ListSubmissions)
		r.Get("/{id}", reviewHandler.GetSubmission)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole("admin"))

			r.Get("/pending", reviewHandler.ListPending)
			r.Post("/{id}/decide", reviewHandler.Decide)
		})
	})

	// User profile and stats endpoints (auth required)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/me", authHandler.GetProfile)
		r.Get("/me/stats", reviewHandler.GetMyStats)

		r.With(middleware.RequireRole("admin")).Get("/{id}/stats", reviewHandler.GetUserStats)
	})

	// Image upload endpoint (auth required, multipart body)
	r.Route("/api/v1/uploads", func(r chi.Router) {
		r.Use(middleware.Auth(tokenValidator))

		r.Post("/", uploadHandler.UploadImage)
		r.With(middleware.RequireRole("admin")).Delete("/{key}", uploadHandler.DeleteImage)
	})

	return r
}
