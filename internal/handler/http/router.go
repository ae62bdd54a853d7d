package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/periodica-hq/bizops-backend-go/internal/handler/http/middleware"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/jwt"
)

type RouterOptions struct {
	AllowedOrigin string
	Env           string
	LogLevel      slog.Level
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	statutoryHandler StatutoryHandler,
	payrollHandler PayrollHandler,
	settlementHandler SettlementHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "bizops-payroll"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{opts.AllowedOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)

		r.Route("/statutory-settings", func(r chi.Router) {
			r.Get("/", statutoryHandler.GetSettings)
			r.With(middleware.AdminOnly).Put("/", statutoryHandler.UpdateSettings)
		})

		r.Route("/employees/{id}/salary-components", func(r chi.Router) {
			r.Get("/", payrollHandler.GetSalaryComponents)
			r.With(middleware.AdminOnly).Put("/", payrollHandler.UpsertSalaryComponents)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/summary", payrollHandler.GetSummary)

			r.Route("/slips", func(r chi.Router) {
				r.Get("/", payrollHandler.ListSlips)
				r.Get("/{id}", payrollHandler.GetSlip)
				r.Post("/preview", payrollHandler.PreviewSlip)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", payrollHandler.CreateSlip)
					r.Post("/generate", payrollHandler.GenerateSlips)
					r.Post("/pay", payrollHandler.MarkPaid)
					r.Post("/{id}/void", payrollHandler.VoidSlip)
				})
			})
		})

		r.Route("/settlements", func(r chi.Router) {
			r.Use(middleware.AdminOnly)
			r.Post("/", settlementHandler.Settle)
			r.Get("/{employeeID}", settlementHandler.GetByEmployeeID)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	return r
}
