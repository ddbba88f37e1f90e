// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

// reach computes the reachable state space of the LDD model files produced
// by LTSmin's ldd2bdd tool.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "reach MODEL.ldd",
		Short: "Symbolic reachability over Sylvan model files",
		Long: `reach loads a model file in the Sylvan serialization, as produced by
LTSmin's ldd2bdd tool, and computes its reachable state space with List
Decision Diagrams. Files compressed with gzip, zstd or lz4 are decompressed
based on their extension.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runExplore,
	}

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Explore a suite of models and check their state counts",
		Long: `bench reads a yaml suite file listing model files together with their
expected number of reachable states, explores every model, and fails if one
of the counts differs.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runBench,
	}

	nodesize  int
	cachesize int
	dumpfile  string
	quiet     bool
	loglevel  string
	logjson   bool

	suitefile string
	parallel  int
)

func init() {
	rootCmd.PersistentFlags().IntVar(&nodesize, "nodesize", 1<<20, "initial size of the node table")
	rootCmd.PersistentFlags().IntVar(&cachesize, "cachesize", 1<<18, "initial size of the operation caches")
	rootCmd.PersistentFlags().StringVar(&loglevel, "log-level", "info", "log level (debug, info, warn or error)")
	rootCmd.PersistentFlags().BoolVar(&logjson, "log-json", false, "log in JSON instead of text")
	rootCmd.Flags().StringVar(&dumpfile, "dump", "", "write the reachable states to this file after exploration")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "only print the number of reachable states")
	benchCmd.Flags().StringVar(&suitefile, "suite", "suite.yaml", "suite description file")
	benchCmd.Flags().IntVar(&parallel, "parallel", 1, "number of models explored in parallel")
	rootCmd.AddCommand(benchCmd)
}

// newLogger builds a logger from the command line flags. It does not touch
// the global logger.
func newLogger(levelStr string, json bool, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
