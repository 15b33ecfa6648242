package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/unkn0wn-root/b2session"
	redisbackend "github.com/unkn0wn-root/b2session/backend/redis"
	"github.com/unkn0wn-root/b2session/internal/config"
	logruslog "github.com/unkn0wn-root/b2session/log/logrus"
)

// App carries what every subcommand needs once flags and config are resolved.
type App struct {
	v       *viper.Viper
	cfgFile string
	log     *logrus.Logger

	cmd   *cobra.Command
	be    *redisbackend.Redis
	store *b2session.Store
}

// Execute runs the CLI. The Redis connection opened during setup is closed
// on every path, including subcommand failures.
func Execute(ctx context.Context) error {
	return newApp().execute(ctx)
}

func (a *App) execute(ctx context.Context) (err error) {
	defer func() {
		if cerr := a.teardown(context.Background()); err == nil {
			err = cerr
		}
	}()
	return a.cmd.ExecuteContext(ctx)
}

func newApp() *App {
	a := &App{v: config.New(), log: logrus.New()}

	cmd := &cobra.Command{
		Use:           "b2session",
		Short:         "Inspect and maintain B2 session state shared through Redis",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Path to a config file (yaml, json, toml).")
	flags.String("redis-addr", "", "Redis address host:port. Env: B2SESSION_REDIS_ADDR.")
	flags.Int("redis-db", 0, "Redis database index. Env: B2SESSION_REDIS_DB.")
	flags.String("redis-username", "", "Redis ACL username. Env: B2SESSION_REDIS_USERNAME.")
	flags.String("redis-password", "", "Redis password. Env: B2SESSION_REDIS_PASSWORD.")
	flags.String("prefix", "", "Key prefix shared by cooperating clients. Env: B2SESSION_PREFIX.")
	flags.String("log-level", "", "Log level (debug, info, warn, error). Env: B2SESSION_LOG_LEVEL.")

	bindFlags(a.v, flags)

	cmd.AddCommand(
		newShowCommand(a),
		newClearCommand(a),
		newImportCommand(a),
		newBucketsCommand(a),
	)
	a.cmd = cmd
	return a
}

// bindFlags maps flags onto config keys. Only flags set explicitly override
// env and file values.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for key, flag := range map[string]string{
		"redis.addr":     "redis-addr",
		"redis.db":       "redis-db",
		"redis.username": "redis-username",
		"redis.password": "redis-password",
		"prefix":         "prefix",
		"log.level":      "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
}

func (a *App) setup(_ context.Context) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	lvl, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.log.SetLevel(lvl)

	a.be = redisbackend.Dial(cfg.RedisOptions())
	a.store, err = b2session.New(b2session.Options{
		Backend: a.be,
		Prefix:  cfg.Prefix,
		Logger:  logruslog.New(a.log),
	})
	if err != nil {
		_ = a.be.Close(context.Background())
		return err
	}
	a.log.WithFields(logrus.Fields{"redis": cfg.Redis.Addr, "db": cfg.Redis.DB, "prefix": a.store.Prefix()}).Debug("connected")
	return nil
}

func (a *App) teardown(ctx context.Context) error {
	if a.be == nil {
		return nil
	}
	be := a.be
	a.be, a.store = nil, nil
	return be.Close(ctx)
}
