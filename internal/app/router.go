package app

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/youcefmohamedelamine/telegram-bot/internal/handler/auth"
	"github.com/youcefmohamedelamine/telegram-bot/internal/handler/buy"
	"github.com/youcefmohamedelamine/telegram-bot/internal/handler/middleware"
	"github.com/youcefmohamedelamine/telegram-bot/internal/handler/payment"
	"github.com/youcefmohamedelamine/telegram-bot/internal/handler/user"
	"github.com/youcefmohamedelamine/telegram-bot/internal/postgres"
	"github.com/youcefmohamedelamine/telegram-bot/internal/rank"
	"github.com/youcefmohamedelamine/telegram-bot/internal/service"
)

func (app *App) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.WithCORS)

	p := postgres.New(app.DB)
	ranks := rank.Default()

	paymentService := service.NewPaymentService(p, app.Bot, ranks)
	paymentHandler := paymenthandler.New(paymentService, app.Bot)

	userService := service.NewUserService(p, ranks)
	userHandler := userhandler.New(userService)

	invoiceService := service.NewInvoiceService(app.Bot, app.Config.PaymentProviderToken)
	buyHandler := buyhandler.New(invoiceService)

	authService := service.NewAuthService(app.Config)
	authHandler := authhandler.New(authService)

	r.Route("/api", func(r chi.Router) {
		r.Get("/user/{userID}", userHandler.Stats)
		r.With(middleware.WithAdminAuth(app.Config)).Post("/user/{userID}/update", userHandler.Update)
		r.Post("/buy", buyHandler.Buy)
		r.Post("/admin/login", authHandler.Login)
	})

	r.With(middleware.WithWebhookSecret(app.Config.WebhookSecret)).Post("/bot", paymentHandler.Webhook)

	return r
}
