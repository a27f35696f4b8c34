// Command cachectl administers the persisted word cache of the configured
// driver.
//
//	cachectl -migrate             apply PostgreSQL schema migrations
//	cachectl -import cache.json   merge a JSON word cache into the store
//	cachectl -import cache.json -replace
//	                              replace the store's contents with the file
//	cachectl -export cache.json   write the store's entries to a JSON file
//	cachectl -clear               remove every cached word
//
// With no action flag it prints the number of stored words.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/readeasy/internal/adapter/filecache"
	"github.com/heartmarshall/readeasy/internal/adapter/postgres"
	"github.com/heartmarshall/readeasy/internal/app"
	"github.com/heartmarshall/readeasy/internal/config"
	"github.com/heartmarshall/readeasy/internal/service/wordcache"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	migrate := flag.Bool("migrate", false, "apply PostgreSQL migrations")
	importPath := flag.String("import", "", "JSON cache file to merge into the store")
	replace := flag.Bool("replace", false, "with -import, replace the store's contents instead of merging")
	exportPath := flag.String("export", "", "JSON file to write the store's entries to")
	clearAll := flag.Bool("clear", false, "remove every cached word")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *migrate {
		if cfg.Cache.Driver != config.CacheDriverPostgres {
			logger.Error("migrations apply only to the postgres driver", slog.String("driver", cfg.Cache.Driver))
			os.Exit(1)
		}
		if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
			logger.Error("migrate", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	store, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open cache store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	cache := wordcache.NewCache(logger, store)
	if err := cache.Load(ctx); err != nil {
		logger.Error("load cache", slog.String("error", err.Error()))
		closeStore()
		os.Exit(1)
	}

	if *replace && *importPath == "" {
		logger.Error("-replace requires -import")
		closeStore()
		os.Exit(1)
	}

	if err := run(ctx, logger, cache, actions{
		importPath: *importPath,
		replace:    *replace,
		exportPath: *exportPath,
		clearAll:   *clearAll,
	}); err != nil {
		logger.Error("cachectl failed", slog.String("error", err.Error()))
		closeStore()
		os.Exit(1)
	}

	if !*migrate && *importPath == "" && *exportPath == "" && !*clearAll {
		n, err := cache.StoredCount(ctx)
		if err != nil {
			logger.Error("count cache", slog.String("error", err.Error()))
			closeStore()
			os.Exit(1)
		}
		fmt.Printf("%s cache: %d words\n", cfg.Cache.Driver, n)
	}
}

type actions struct {
	importPath string
	replace    bool
	exportPath string
	clearAll   bool
}

func run(ctx context.Context, logger *slog.Logger, cache *wordcache.Cache, act actions) error {
	if act.clearAll {
		before := cache.Len()
		if err := cache.Clear(ctx); err != nil {
			return err
		}
		logger.Info("cache cleared", slog.Int("removed", before))
	}

	if act.importPath != "" {
		src := filecache.NewStore(act.importPath)
		entries, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}
		if len(entries) == 0 {
			return errors.New("import file has no entries")
		}

		written := len(entries)
		if act.replace {
			if err := cache.Replace(ctx, entries); err != nil {
				return err
			}
		} else {
			for word, replacement := range entries {
				cache.Put(word, replacement)
			}
			written = cache.Dirty()
			if err := cache.Flush(ctx); err != nil {
				return err
			}
		}
		logger.Info("cache imported",
			slog.String("file", src.Path()),
			slog.Bool("replace", act.replace),
			slog.Int("read", len(entries)),
			slog.Int("written", written),
		)
	}

	if act.exportPath != "" {
		dst := filecache.NewStore(act.exportPath)
		snapshot := cache.Snapshot()
		if err := dst.Replace(ctx, snapshot); err != nil {
			return fmt.Errorf("write export file: %w", err)
		}
		logger.Info("cache exported",
			slog.String("file", dst.Path()),
			slog.Int("words", len(snapshot)),
		)
	}

	return nil
}
