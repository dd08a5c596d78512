package devbackend

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

type RouterConfig struct {
	Backend  *Backend
	Logger   zerolog.Logger
	Registry *prometheus.Registry
	Checks   map[string]Check
	Env      string
	Version  string
}

// NewRouter mounts the REST API under /api next to the health and metrics
// endpoints.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if cfg.Checks == nil {
		cfg.Checks = map[string]Check{"store": func(context.Context) error { return nil }}
	}
	b := cfg.Backend
	h := &handlers{b: b}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logging(cfg.Logger, NewMetrics(cfg.Registry)))

	health := NewHealthHandler(cfg.Checks, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))

	patient := requireRole(b, marketplace.RolePatient)
	doctor := requireRole(b, marketplace.RoleDoctor)
	admin := chi.Chain(patient, requireAdmin(b))
	anyone := requireRole(b, marketplace.RolePatient, marketplace.RoleDoctor)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", h.registerUser)
			r.Post("/login", h.loginUser)
			r.With(patient).Get("/profile", h.profile)
			r.With(patient).Put("/profile", h.updateProfile)
			r.With(admin...).Get("/", h.listUsers)
			r.With(admin...).Delete("/{id}", h.deleteUser)
		})

		r.Route("/doctors", func(r chi.Router) {
			r.Post("/register", h.registerDoctor)
			r.Post("/login", h.loginDoctor)
			r.Get("/", h.listDoctors)
			r.Get("/{id}", h.getDoctor)
			r.With(doctor).Put("/profile", h.updateDoctor)
			r.With(admin...).Delete("/{id}", h.deleteDoctor)
		})

		r.Route("/clinics", func(r chi.Router) {
			r.Get("/", h.listClinics)
			r.Get("/{id}", h.getClinic)
			r.With(admin...).Post("/", h.createClinic)
			r.With(admin...).Put("/{id}", h.updateClinic)
			r.With(admin...).Delete("/{id}", h.deleteClinic)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Get("/{id}", h.getProduct)
			r.With(admin...).Post("/", h.createProduct)
			r.With(admin...).Put("/{id}", h.updateProduct)
			r.With(admin...).Delete("/{id}", h.deleteProduct)
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", h.listBlogs)
			r.Get("/{id}", h.getBlog)
			r.With(doctor).Post("/", h.createBlog)
			r.With(doctor).Put("/{id}", h.updateBlog)
			r.With(doctor).Delete("/{id}", h.deleteBlog)
		})

		r.Route("/appointments", func(r chi.Router) {
			r.With(patient).Get("/patient", h.patientAppointments)
			r.With(doctor).Get("/doctor", h.doctorAppointments)
			r.With(patient).Post("/check-availability", h.checkAvailability)
			r.With(patient).Post("/", h.bookAppointment)
			r.With(doctor).Put("/{id}/status", h.updateAppointmentStatus)
			r.With(patient).Delete("/{id}", h.cancelAppointment)
		})

		r.Route("/carts", func(r chi.Router) {
			r.Use(patient)
			r.Get("/", h.getCart)
			r.Post("/", h.addToCart)
			r.Put("/{productID}", h.updateCartQuantity)
			r.Delete("/{productID}", h.removeFromCart)
			r.Delete("/", h.clearCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(patient).Post("/", h.createOrder)
			r.With(patient).Get("/my", h.myOrders)
			r.With(admin...).Get("/", h.allOrders)
			r.With(admin...).Put("/{id}/status", h.updateOrderStatus)
		})

		r.Get("/tests", h.listLabTests)
		r.Get("/tests/{id}", h.getLabTest)
		r.Route("/lab-tests", func(r chi.Router) {
			r.Use(patient)
			r.Post("/book", h.bookLabTest)
			r.Get("/bookings", h.labBookings)
			r.Post("/bookings/{id}/report", h.uploadReport)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Use(anyone)
			r.Get("/conversations", h.conversations)
			r.Get("/{id}", h.conversation)
			r.Post("/", h.sendMessage)
		})
	})

	return r
}
