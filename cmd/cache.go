package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"investment-agent/config"
	"investment-agent/pkg/cache"
	"investment-agent/pkg/logger"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the file cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print file cache statistics",
	Run: func(cmd *cobra.Command, args []string) {
		store := mustFileStore()
		out, err := json.MarshalIndent(store.Stats(), "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode stats: %v", err)
		}
		fmt.Println(string(out))
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every file cache entry",
	Run: func(cmd *cobra.Command, args []string) {
		store := mustFileStore()
		if !store.ClearAll() {
			log.Fatal("Failed to clear some cache entries")
		}
		fmt.Println("Cache cleared.")
	},
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete only expired file cache entries",
	Run: func(cmd *cobra.Command, args []string) {
		store := mustFileStore()
		fmt.Printf("Removed %d expired entries.\n", store.SweepExpired())
	},
}

func mustFileStore() *cache.FileStore {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	lg, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	store, err := cache.NewFileStore(cfg.Cache.Dir, cfg.Cache.DefaultTTL, lg)
	if err != nil {
		log.Fatalf("Failed to open file cache: %v", err)
	}
	return store
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheSweepCmd)
}
