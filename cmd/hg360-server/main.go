package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hg360/hg360/internal/config"
	"github.com/hg360/hg360/internal/domain/admin"
	"github.com/hg360/hg360/internal/domain/claim"
	"github.com/hg360/hg360/internal/domain/identity"
	"github.com/hg360/hg360/internal/domain/policy"
	"github.com/hg360/hg360/internal/domain/prescription"
	"github.com/hg360/hg360/internal/platform/auth"
	"github.com/hg360/hg360/internal/platform/middleware"
	"github.com/hg360/hg360/internal/platform/persist"
	"github.com/hg360/hg360/internal/platform/report"
	"github.com/hg360/hg360/internal/platform/sandbox"
	"github.com/hg360/hg360/internal/platform/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hg360-server",
		Short: "HealthGuard360 insurance administration API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HealthGuard360 API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write a data file populated with sample records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sess := session.New()
			sandbox.Seed(sess)
			if err := sess.Save(cfg.DataFile); err != nil {
				return fmt.Errorf("save seeded data: %w", err)
			}

			fmt.Printf("Seeded %s: %d users, %d policies, %d claims, %d prescriptions, %d enterprises, %d organizations.\n",
				cfg.DataFile,
				sess.Users.Count(),
				sess.Policies.Count(),
				sess.Claims.Count(),
				sess.Prescriptions.Count(),
				sess.Enterprises.Count(),
				sess.Organizations.Count())
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Copy the current data file to a named snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			sess := session.New()
			if err := sess.Load(cfg.DataFile); err != nil {
				if errors.Is(err, persist.ErrNoData) {
					return fmt.Errorf("no data file at %s, nothing to export", cfg.DataFile)
				}
				return err
			}
			if err := sess.Save(args[0]); err != nil {
				return fmt.Errorf("export to %s: %w", args[0], err)
			}

			fmt.Printf("Exported %s to %s (%d bytes).\n", cfg.DataFile, args[0], persist.Size(args[0]))
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the current data file with a named snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			sess := session.New()
			if err := sess.Load(args[0]); err != nil {
				return fmt.Errorf("read snapshot %s: %w", args[0], err)
			}
			if err := sess.Save(cfg.DataFile); err != nil {
				return fmt.Errorf("import into %s: %w", cfg.DataFile, err)
			}

			fmt.Printf("Imported %s into %s: %d users, %d policies, %d claims.\n",
				args[0], cfg.DataFile,
				sess.Users.Count(),
				sess.Policies.Count(),
				sess.Claims.Count())
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	secret := cfg.SessionSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := crypto_rand.Read(buf); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate session secret")
		}
		secret = hex.EncodeToString(buf)
		logger.Warn().Msg("SESSION_SECRET not set, using a random secret; tokens will not survive restarts")
	}
	issuer := auth.NewIssuer([]byte(secret), time.Duration(cfg.SessionTTLMinutes)*time.Minute)

	// Session state: load the saved snapshot if one exists, optionally seed
	// sample data on a fresh start.
	sess := session.New()
	if err := sess.Load(cfg.DataFile); err != nil {
		if !errors.Is(err, persist.ErrNoData) {
			logger.Fatal().Err(err).Str("file", cfg.DataFile).Msg("failed to load data file")
		}
		if cfg.SeedSampleData {
			sandbox.Seed(sess)
			logger.Info().
				Int("users", sess.Users.Count()).
				Int("policies", sess.Policies.Count()).
				Int("claims", sess.Claims.Count()).
				Msg("seeded sample data")
		}
	} else {
		logger.Info().
			Str("file", cfg.DataFile).
			Int("users", sess.Users.Count()).
			Int("policies", sess.Policies.Count()).
			Int("claims", sess.Claims.Count()).
			Int("prescriptions", sess.Prescriptions.Count()).
			Msg("loaded data file")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	e.Use(auth.Middleware(issuer, auth.DefaultSkipper))

	// API group
	apiV1 := e.Group("/api/v1")

	// Rate limiting middleware
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Domain handlers
	identityHandler := identity.NewHandler(sess.Users, issuer)
	identityHandler.OnLogin = sess.Login
	identityHandler.OnLogout = sess.Logout
	identityHandler.RegisterRoutes(apiV1)

	claimHandler := claim.NewHandler(sess.Claims)
	claimHandler.RegisterRoutes(apiV1)

	policyHandler := policy.NewHandler(sess.Policies, func(p *policy.Policy) []byte {
		return report.PolicyDocument(p, holderName(sess.Users, p.PatientID))
	})
	policyHandler.RegisterRoutes(apiV1)

	prescriptionHandler := prescription.NewHandler(sess.Prescriptions, prescription.DefaultCatalog())
	prescriptionHandler.RegisterRoutes(apiV1)

	adminHandler := admin.NewHandler(sess.Enterprises, sess.Organizations)
	adminHandler.RegisterRoutes(apiV1)

	sessionHandler := session.NewHandler(sess, cfg.DataFile)
	sessionHandler.RegisterRoutes(apiV1)

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}

	if err := sess.Save(cfg.DataFile); err != nil {
		logger.Error().Err(err).Str("file", cfg.DataFile).Msg("failed to save data file on shutdown")
	} else {
		logger.Info().Str("file", cfg.DataFile).Msg("saved data file")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// holderName resolves a patient id to the display name on the registered
// account, falling back to the raw id when no account is linked.
func holderName(users *identity.UserDirectory, patientID string) string {
	for _, u := range users.All() {
		if u.PatientID == patientID {
			return u.Person.FullName()
		}
	}
	return patientID
}
