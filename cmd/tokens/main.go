// Command tokens performs maintenance on issued personal access tokens.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flags "github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/charlesng35/storeadmin/internal/app"
	iauth "github.com/charlesng35/storeadmin/internal/auth"
	"github.com/charlesng35/storeadmin/internal/cache"
	"github.com/charlesng35/storeadmin/internal/database"
	"github.com/charlesng35/storeadmin/pkg/logger"
)

type globalOptions struct {
	Config string `short:"c" long:"config" description:"Path to configuration directory or file"`
}

// deleteExpiredCommand removes expired and revoked tokens.
type deleteExpiredCommand struct {
	global *globalOptions
	ctx    context.Context
	out    io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var opts globalOptions
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.AddCommand(
		"delete-expired",
		"Delete expired tokens",
		"Hard-deletes every personal access token that has expired or been revoked.",
		&deleteExpiredCommand{global: &opts, ctx: ctx, out: out},
	); err != nil {
		return err
	}

	_, err := parser.ParseArgs(args)
	return err
}

// Execute implements flags.Commander.
func (c *deleteExpiredCommand) Execute(_ []string) error {
	cfg, err := app.LoadConfigFromPath(c.global.Config)
	if err != nil {
		return err
	}
	if _, err := app.ApplyRuntimeDefaults(cfg); err != nil {
		return err
	}
	if err := app.ConfigureLogging(cfg.Server); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	deleted, err := deleteExpired(c.ctx, cfg)
	if err != nil {
		return err
	}

	logger.WithModule("tokens").Info("expired tokens deleted", zap.Int64("count", deleted))
	fmt.Fprintln(c.out, "Expired tokens deleted successfully.")
	return nil
}

func deleteExpired(ctx context.Context, cfg *app.Config) (int64, error) {
	db, err := database.Open(cfg.Database.DatabaseOptions())
	if err != nil {
		return 0, fmt.Errorf("open database: %w", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return 0, fmt.Errorf("auto-migrate database: %w", err)
	}

	var store cache.Store = cache.NewDatabaseStore(db)
	if cfg.Cache.Redis.Enabled {
		redisStore, err := cache.NewRedisStore(ctx, cfg.Cache.RedisClientConfig())
		if err != nil {
			logger.WithModule("tokens").Warn("redis unavailable; revoked tokens are evicted from the database store only", zap.Error(err))
		} else {
			defer redisStore.Close()
			store = redisStore
		}
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return 0, fmt.Errorf("initialise jwt service: %w", err)
	}
	tokens, err := iauth.NewTokenService(db, jwtSvc, iauth.TokenConfig{Cache: iauth.NewTokenCache(store)})
	if err != nil {
		return 0, fmt.Errorf("initialise token service: %w", err)
	}

	return tokens.CleanupExpired(ctx)
}
