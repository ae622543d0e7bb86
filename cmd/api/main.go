package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotel_booking/internal/adapters/http_server"
	"hotel_booking/internal/adapters/identity"
	"hotel_booking/internal/adapters/observability"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/adapters/s3images"
	"hotel_booking/internal/adapters/stripe"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/location"
	"hotel_booking/internal/shared"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}

	payments, err := stripe.New(cfg.StripeKey, cfg.StripeURL, cfg.PaymentRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize payment processor")
	}
	images, err := s3images.Open(ctx, s3images.Options{
		Bucket:     cfg.S3Bucket,
		Region:     cfg.S3Region,
		Endpoint:   cfg.S3Endpoint,
		PublicBase: cfg.S3PublicBase,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize image store")
	}

	// full countries-states-cities export; the embedded sample otherwise
	if cfg.LocationsFile != "" {
		if err := location.LoadFile(cfg.LocationsFile); err != nil {
			log.Fatal().Err(err).Msg("failed to load location dataset")
		}
		log.Info().Int("countries", len(location.AllCountries())).Msg("location dataset loaded")
	} else {
		log.Warn().Msg("LOCATIONS_FILE unset, serving the embedded sample dataset")
	}

	// identity: profile lookups are optional, the token alone is enough
	var users domain.UserDirectory
	if idp, err := identity.NewClient(cfg.IDPBase, cfg.IDPKey, 10); err != nil {
		log.Warn().Err(err).Msg("identity directory disabled")
	} else {
		users = idp
	}
	verifier, err := identity.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		log.Fatal().Err(err).Msg("AUTH_JWT_SECRET must be set")
	}
	auth := identity.NewAuthenticator(verifier, users, cache, time.Hour)

	// services
	repo := mysqlrepo.New(db)
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	hotels := app.NewHotelService(repo, images, cache)
	sessions := app.NewSessionService(cache, repo, cfg.SessionTTL)
	bookings := app.NewBookingService(repo, repo, payments, cfg.Currency).
		WithOrphanQueue(redisad.NewOrphanQueue(cache.Client())).
		WithSessions(sessions)

	// http
	srv := server.New(auth)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:         q,
		Hotels:    hotels,
		Bookings:  bookings,
		Sessions:  sessions,
		MaxUpload: cfg.UploadMax,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
