// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/dalzilio/ludd"
	"github.com/dalzilio/ludd/sylvan"
)

// A suite file lists model files with their expected number of reachable
// states, as a yaml document:
//
//	models:
//	  - file: philo10.ldd
//	    states: "18741"
//	  - file: blocks.2.ldd.zst
//	    states: "362880"
//
// Counts are decimal strings, state spaces routinely outgrow 64 bits. File
// names are relative to the directory of the suite file.
type suite struct {
	Models []suitemodel `yaml:"models"`
}

type suitemodel struct {
	File   string `yaml:"file"`
	States string `yaml:"states"`
}

func runBench(_ *cobra.Command, _ []string) error {
	logger := newLogger(loglevel, logjson, os.Stderr)
	data, err := os.ReadFile(suitefile)
	if err != nil {
		return err
	}
	var s suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing %s: %w", suitefile, err)
	}
	if len(s.Models) == 0 {
		return fmt.Errorf("no models in %s", suitefile)
	}
	base := filepath.Dir(suitefile)
	var g errgroup.Group
	g.SetLimit(parallel)
	for _, mod := range s.Models {
		mod := mod
		g.Go(func() error {
			// every model gets its own table, an LDD is confined to a
			// single goroutine
			return checkmodel(filepath.Join(base, mod.File), mod.States, logger)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("suite passed", "models", len(s.Models))
	return nil
}

// checkmodel explores one model file and compares the number of reachable
// states with the expected count.
func checkmodel(file, states string, logger *slog.Logger) error {
	expected, ok := new(big.Int).SetString(states, 10)
	if !ok {
		return fmt.Errorf("%s: invalid expected count %q", file, states)
	}
	b, err := ludd.New(ludd.Nodesize(nodesize), ludd.Cachesize(cachesize))
	if err != nil {
		return err
	}
	m, err := sylvan.LoadModel(b, file)
	if err != nil {
		return fmt.Errorf("loading %s: %w", file, err)
	}
	res, err := explore(b, m, logger)
	if err != nil {
		return fmt.Errorf("exploring %s: %w", file, err)
	}
	if res.count.Cmp(expected) != 0 {
		return fmt.Errorf("%s: expected %s states, found %s", file, expected, res.count)
	}
	logger.Info("model checked", "file", file, "states", res.count.String(),
		"levels", res.levels, "took", res.took)
	return nil
}
