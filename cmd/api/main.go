package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/cyberauth/cyberauth/internal/handlers"
	"github.com/cyberauth/cyberauth/internal/mailer"
	"github.com/cyberauth/cyberauth/internal/password"
	"github.com/cyberauth/cyberauth/internal/registry"
	"github.com/cyberauth/cyberauth/internal/repository"
	"github.com/cyberauth/cyberauth/internal/service"
	"github.com/cyberauth/cyberauth/pkg/config"
	"github.com/cyberauth/cyberauth/pkg/database"
	"github.com/cyberauth/cyberauth/pkg/events"
	"github.com/cyberauth/cyberauth/pkg/logger"
	mw "github.com/cyberauth/cyberauth/pkg/middleware"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSPublisher(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Transient stores: process-wide, gone on restart
	otps := registry.NewOTPRegistry(cfg.Auth.OTPTTL)
	tokens := registry.NewTokenRegistry(cfg.Auth.ResetTokenTTL)
	throttle := registry.NewLoginThrottle(cfg.Auth.MaxLoginAttempts)

	userRepo := repository.NewUserRepository(pool)
	hasher := password.NewArgon2Hasher()
	notifier := selectMailer(cfg)

	authService := service.NewAuthService(userRepo, hasher, throttle, eventBus)
	recoveryService := service.NewRecoveryService(userRepo, otps, tokens, throttle, hasher, notifier, eventBus, cfg)

	h := handlers.New(authService, recoveryService, cfg)

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("cyberauth"))
	r.Use(mw.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health)

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/forgot", h.ForgotPassword)
	r.Post("/verify-otp", h.VerifyOTP)
	r.Get("/reset-password/{token}", h.ResetPasswordForm)
	r.Post("/reset-password/{token}", h.ResetPassword)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down auth service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Auth service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting auth service", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Auth service error", "error", err)
		os.Exit(1)
	}
}

func selectMailer(cfg *config.Config) mailer.Service {
	if cfg.Email.DevMode {
		return mailer.NewDevMailer()
	}
	if cfg.Email.MailerSendKey != "" {
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	}
	return mailer.NewSMTPMailer(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPFrom,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPass,
		cfg.Email.SMTPUseTLS,
	)
}
