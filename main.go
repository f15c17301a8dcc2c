package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "time/tzdata"

	"github.com/robalobadob/wordrush/internal/config"
	"github.com/robalobadob/wordrush/internal/daily"
	"github.com/robalobadob/wordrush/internal/db"
	"github.com/robalobadob/wordrush/internal/httpserver"
	"github.com/robalobadob/wordrush/internal/kv"
	"github.com/robalobadob/wordrush/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	dsn := cfg.DBPath
	if cfg.StoreDriver == config.DriverMemory {
		dsn = ":memory:"
	}
	sqlDB, err := db.Open(dsn)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := db.Migrate(sqlDB); err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg, sqlDB)
	if err != nil {
		return err
	}
	defer closeStore()

	data := words.Load(ctx, words.Sources{WordsFile: cfg.WordsFile, DailyFile: cfg.DailyFile})

	srv := httpserver.New(httpserver.Deps{
		Config:  cfg,
		Store:   store,
		Results: daily.NewStore(sqlDB),
		Pool:    words.NewPool(data.Words),
		Daily:   data.Daily,
	})
	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("starting wordrush")
	return srv.Start(ctx, ":"+cfg.Port)
}

// openStore returns the preference store selected by STORE_DRIVER.
func openStore(cfg config.Config, sqlDB *sql.DB) (kv.Store, func() error, error) {
	nop := func() error { return nil }
	switch cfg.StoreDriver {
	case config.DriverBolt:
		b, err := kv.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	case config.DriverMemory:
		return kv.NewMemory(), nop, nil
	case config.DriverSQLite:
		return kv.NewSQLite(sqlDB), nop, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
