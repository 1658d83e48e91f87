package app

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swimschool/billing/internal/handlers"
	"github.com/swimschool/billing/internal/utils/jwt"
	"go.uber.org/zap"
)

// setupRouter создает и настраивает роутер
func setupRouter(h *handlerSet, users handlers.StaffDirectory, jwtManager *jwt.Manager, metricsEnabled bool, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	setupMiddleware(r, logger)

	// Маршруты
	setupRoutes(r, h, users, jwtManager, metricsEnabled, logger)

	return r
}

// setupMiddleware настраивает middleware для роутера
func setupMiddleware(r *chi.Mux, logger *zap.Logger) {
	r.Use(handlers.RequestIDMiddleware())
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.MetricsMiddleware())
	r.Use(handlers.RecoveryMiddleware(logger))
	r.Use(middleware.Compress(5))
}

// setupRoutes настраивает маршруты приложения
func setupRoutes(r *chi.Mux, h *handlerSet, users handlers.StaffDirectory, jwtManager *jwt.Manager, metricsEnabled bool, logger *zap.Logger) {
	// Health check эндпоинты
	r.Get("/health", h.health.Health)
	r.Get("/ready", h.health.Ready)
	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Регистрация открыта, но выдать права может только администратор
	r.With(handlers.OptionalAuthMiddleware(jwtManager)).Post("/api/staff/register", h.auth.Register)
	r.Post("/api/staff/login", h.auth.Login)

	// Защищенные эндпоинты
	r.Group(func(r chi.Router) {
		r.Use(handlers.AuthMiddleware(jwtManager))

		r.Get("/api/seasons", h.catalog.ListSeasons)
		r.Get("/api/seasons/{id}/pools", h.catalog.ListPools)
		r.Get("/api/seasons/{id}/products", h.catalog.ListProducts)
		r.Get("/api/products/{id}", h.catalog.GetProduct)
		r.Get("/api/products/{id}/progress", h.catalog.ProductProgress)

		// Каталог меняет только администратор
		r.Group(func(r chi.Router) {
			r.Use(handlers.RequireAdmin(users, logger))
			r.Post("/api/seasons", h.catalog.CreateSeason)
			r.Post("/api/pools", h.catalog.CreatePool)
			r.Post("/api/products", h.catalog.CreateProduct)
		})

		r.Post("/api/participants", h.enrollment.CreateParticipant)
		r.Get("/api/participants/{id}", h.enrollment.GetParticipant)
		r.Post("/api/registrations", h.enrollment.Register)
		r.Get("/api/registrations/{id}", h.enrollment.GetRegistration)
		r.Patch("/api/registrations/{id}", h.enrollment.UpdateRegistration)
		r.Get("/api/registrations/{id}/status", h.enrollment.RegistrationStatus)
		r.Post("/api/registrations/{id}/payments", h.payment.RecordPayment)
		r.Get("/api/registrations/{id}/payments", h.payment.ListPayments)

		r.Route("/api/reports", func(r chi.Router) {
			r.Use(handlers.RequireReportAccess(users, logger))
			r.Get("/products/{id}/summary", h.report.ProductSummary)
			r.Get("/seasons/{id}/summary", h.report.SeasonSummary)
			r.Get("/days/{date}/summary", h.report.DaySummary)
			r.Get("/seasons/{id}/export", h.report.ExportSeason)
		})
	})
}
