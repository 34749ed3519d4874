package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/paiero-app/paiero-backend-go/internal/handler/http/middleware"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	payrollHandler PayrollHandler,
	loanHandler LoanHandler,
	employeeHandler EmployeeHandler,
	configHandler ConfigHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "paiero-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
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

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
		r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

		r.Route("/periods", func(r chi.Router) {
			r.Get("/", payrollHandler.ListPeriods)
			r.Post("/", payrollHandler.OpenPeriod)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", payrollHandler.GetPeriod)
				r.Post("/run", payrollHandler.RunPayroll)
				r.Post("/finalize", payrollHandler.FinalizePeriod)
				r.Get("/summary", payrollHandler.GetSummary)

				r.Route("/records", func(r chi.Router) {
					r.Get("/", payrollHandler.ListRecords)
					r.Get("/{employeeID}", payrollHandler.GetRecord)
				})
			})
		})

		r.Route("/loans", func(r chi.Router) {
			r.Get("/", loanHandler.ListLoans)
			r.Post("/", loanHandler.RegisterLoan)
			r.Post("/preview-installment", loanHandler.PreviewInstallment)
			r.Get("/{id}", loanHandler.GetLoan)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", employeeHandler.ListEmployees)
			r.Post("/", employeeHandler.CreateEmployee)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", employeeHandler.GetEmployee)
				r.Get("/loans", loanHandler.ListEmployeeLoans)
				r.Post("/deactivate", employeeHandler.DeactivateEmployee)
				r.Post("/reactivate", employeeHandler.ReactivateEmployee)
			})
		})

		r.Route("/config", func(r chi.Router) {
			r.Get("/tax-brackets", configHandler.GetTaxBrackets)
			r.Get("/rates", configHandler.GetRates)
			r.Post("/salary-scale", configHandler.CreateScaleEntry)
			r.Get("/salary-scale/{category}", configHandler.ListScaleEntries)
		})
	})
	return r
}
