package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/handler/http/middleware"
	"github.com/retailhr/hr-backend-go/internal/pkg/jwt"
)

// Handlers groups the resource handlers mounted under /api/v1.
type Handlers struct {
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Overtime     OvertimeHandler
	Salary       SalaryHandler
	Expense      ExpenseHandler
	CompOff      CompOffHandler
	Store        StoreHandler
	Notification NotificationHandler
}

type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	LogLevel       slog.Level
}

func NewRouter(JWTService jwt.Service, employees employee.EmployeeRepository, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "retail-hr"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Authenticated by the short-lived stream token in the query string.
		r.Get("/notifications/stream", h.Notification.Stream)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.Identity(employees))
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Get("/notifications/sse-token", h.Notification.GetSSEToken)

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Post("/punch-in", h.Attendance.PunchIn)
				r.Post("/punch-out", h.Attendance.PunchOut)
				r.Post("/non-working-day", h.Attendance.MarkNonWorkingDay)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Get("/", h.Leave.List)
				r.Post("/", h.Leave.Submit)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Leave.Get)
					r.Delete("/", h.Leave.Withdraw)
					r.Post("/decision", h.Leave.Decide)
				})
			})

			r.Route("/overtime", func(r chi.Router) {
				r.Get("/", h.Overtime.List)
				r.Post("/", h.Overtime.Create)
				r.Post("/{id}/decision", h.Overtime.Decide)
			})

			r.Route("/salaries", func(r chi.Router) {
				r.Get("/", h.Salary.List)
				r.Post("/", h.Salary.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Salary.Get)
					r.Patch("/", h.Salary.Update)
					r.Post("/recompute", h.Salary.Recompute)
				})
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", h.Expense.List)
				r.Post("/", h.Expense.Create)
			})

			r.Get("/comp-off/history", h.CompOff.History)

			r.Route("/stores", func(r chi.Router) {
				r.Get("/", h.Store.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/calendar", h.Store.GetCalendar)
					r.Put("/calendar", h.Store.UpdateCalendar)
					r.Post("/holidays", h.Store.CreateHoliday)
					r.Delete("/holidays/{holidayID}", h.Store.DeleteHoliday)
				})
			})
		})
	})
	return r
}
