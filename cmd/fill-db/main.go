// Команда fill-db загружает клиентов и почтовые отделения из CSV-файлов
// каталога import.data_dir (или каталога из аргумента командной строки).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/magabrotheeeer/letters-packages/internal/config"
	"github.com/magabrotheeeer/letters-packages/internal/lib/sl"
	"github.com/magabrotheeeer/letters-packages/internal/migrations"
	"github.com/magabrotheeeer/letters-packages/internal/services/importer"
	"github.com/magabrotheeeer/letters-packages/internal/storage/repository"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	dir := cfg.DataDir
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, dir, logger); err != nil {
		logger.Error("fill-db failed", sl.Err(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, dir string, logger *slog.Logger) error {
	db, err := repository.New(ctx, cfg.StorageConnectionString, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err = migrations.Run(db.DB.DB, cfg.MigrationsPath); err != nil {
		return err
	}

	var failed []string
	for _, res := range importer.New(db, logger).Run(ctx, dir) {
		if res.Err != nil {
			failed = append(failed, res.File)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("import failed for %s", strings.Join(failed, ", "))
	}
	return nil
}
