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
	"github.com/zedbooks/accounting-backend-go/internal/handler/http/middleware"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	env string,
	payrollHandler PayrollHandler,
	advanceHandler AdvanceHandler,
	taxRateHandler TaxRateHandler,
	ledgerHandler LedgerHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "zedbooks-accounting"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payroll-runs", func(r chi.Router) {
				r.Get("/", payrollHandler.ListRuns)
				r.Post("/", payrollHandler.CreateRun)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetRun)
					r.Post("/trial", payrollHandler.RunTrial)
					r.Post("/revert", payrollHandler.RevertToDraft)
					r.Post("/finalize", payrollHandler.FinalizeRun)

					r.Route("/additions", func(r chi.Router) {
						r.Get("/", payrollHandler.ListAdditions)
						r.Post("/", payrollHandler.AddAddition)
						r.Delete("/{additionId}", payrollHandler.RemoveAddition)
					})
				})
			})

			r.Route("/advances", func(r chi.Router) {
				r.Post("/", advanceHandler.CreateAdvance)
				r.Get("/employee/{employeeId}", advanceHandler.ListByEmployee)
			})

			r.Route("/tax-config", func(r chi.Router) {
				r.Get("/", taxRateHandler.GetRegistry)
				r.Put("/bands", taxRateHandler.ReplaceBands)
				r.Put("/rates", taxRateHandler.UpsertRate)
			})

			r.Route("/journal-entries", func(r chi.Router) {
				r.Post("/opening-balances", ledgerHandler.PostOpeningBalances)
				r.Get("/{id}", ledgerHandler.GetEntry)
			})
		})
	})
	return r
}
