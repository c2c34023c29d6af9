package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/sortarr/internal/config"
	"github.com/vmunix/sortarr/internal/metadata"
	"github.com/vmunix/sortarr/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the metadata cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [key]",
	Short: "Clear the whole cache, or a single identity key",
	Long: `Clear cached provider results. Cache entries never expire on their
own; this is the explicit invalidation. With a key argument only that
identity is cleared, e.g. "movie_The Matrix_1999".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCacheClear,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry count and age",
	RunE:  runCacheStats,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openCache() (*metadata.Cache, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return metadata.NewCache(db), func() { _ = db.Close() }, nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cache, closeDB, err := openCache()
	if err != nil {
		return err
	}
	defer closeDB()

	if len(args) == 1 {
		if err := cache.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("cleared %q\n", args[0])
		return nil
	}

	n, err := cache.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("cleared %d cache entries\n", n)
	return nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cache, closeDB, err := openCache()
	if err != nil {
		return err
	}
	defer closeDB()

	count, oldest, err := cache.Stats(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("entries: %d\n", count)
	if count > 0 {
		fmt.Printf("oldest:  %s\n", oldest.Format("2006-01-02 15:04:05"))
	}
	return nil
}
