package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_booking/internal/adapters/observability"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/adapters/stripe"
	"hotel_booking/internal/app"
	"hotel_booking/internal/shared"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "sweeper")

	rootCmd := &cobra.Command{
		Use:   "sweeper",
		Short: "Cancel payment intents left without a booking",
	}
	rootCmd.AddCommand(onceCmd(cfg), runCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func onceCmd(cfg shared.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Drain one batch of orphaned intents and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer j.close()
			return j.sweep(cmd.Context())
		},
	}
}

func runCmd(cfg shared.Config) *cobra.Command {
	var schedule string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sweep on a cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			j, err := build(ctx, cfg)
			if err != nil {
				return err
			}
			defer j.close()
			observability.Serve(cfg.MetricsAddr)

			c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
			if _, err := c.AddFunc(schedule, func() {
				if err := j.sweep(ctx); err != nil {
					log.Error().Err(err).Msg("sweep failed")
				}
			}); err != nil {
				return fmt.Errorf("schedule %q: %w", schedule, err)
			}
			c.Start()
			log.Info().Str("schedule", schedule).Msg("sweeper started")

			<-ctx.Done()
			<-c.Stop().Done()
			log.Info().Msg("sweeper stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", cfg.SweepSchedule, "cron spec or @every descriptor")
	return cmd
}

// job holds the connections one sweeper process needs.
type job struct {
	db      *sql.DB
	cache   *redisad.Cache
	queue   *redisad.OrphanQueue
	sweeper *app.OrphanSweeper
}

func build(ctx context.Context, cfg shared.Config) (*job, error) {
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	payments, err := stripe.New(cfg.StripeKey, cfg.StripeURL, cfg.PaymentRPS)
	if err != nil {
		db.Close()
		return nil, err
	}

	queue := redisad.NewOrphanQueue(cache.Client())
	return &job{
		db:      db,
		cache:   cache,
		queue:   queue,
		sweeper: app.NewOrphanSweeper(queue, payments, mysqlrepo.New(db), cfg.SweepWorkers),
	}, nil
}

func (j *job) sweep(ctx context.Context) error {
	start := time.Now()
	_, err := j.sweeper.SweepOnce(ctx)
	pending, lerr := j.queue.Len(ctx)
	if lerr != nil {
		pending = -1
	}
	observability.ObserveSweep(err, time.Since(start), pending)
	return err
}

func (j *job) close() {
	_ = j.cache.Client().Close()
	_ = j.db.Close()
}
