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
	"time"

	"github.com/spf13/cobra"

	"github.com/dalzilio/ludd"
	"github.com/dalzilio/ludd/sylvan"
)

// result holds the outcome of one exploration.
type result struct {
	states ludd.Node
	count  *big.Int
	levels int
	took   time.Duration
}

func runExplore(cmd *cobra.Command, args []string) error {
	logger := newLogger(loglevel, logjson, os.Stderr)
	b, err := ludd.New(ludd.Nodesize(nodesize), ludd.Cachesize(cachesize))
	if err != nil {
		return err
	}
	start := time.Now()
	m, err := sylvan.LoadModel(b, args[0])
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}
	logger.Info("model loaded", "file", args[0], "length", m.Length,
		"groups", len(m.Groups), "initial", b.Size(m.Initial), "took", time.Since(start))

	res, err := explore(b, m, logger)
	if err != nil {
		return err
	}
	if quiet {
		fmt.Println(res.count)
	} else {
		fmt.Printf("%s: %s reachable states in %d levels (%.3gs)\n",
			filepath.Base(args[0]), res.count, res.levels, res.took.Seconds())
		fmt.Printf("states use %d nodes\n", b.Size(res.states))
		logger.Debug("table state", "stats", b.Stats())
	}
	if dumpfile != "" {
		wr, err := sylvan.Create(b, dumpfile)
		if err != nil {
			return err
		}
		if err := wr.WriteSet(res.states); err != nil {
			wr.Close()
			return err
		}
		if err := wr.Close(); err != nil {
			return err
		}
		logger.Info("dumped reachable states", "file", dumpfile)
	}
	return nil
}

// explore computes the reachable states of a model with a breadth first
// fixed point: at every step we only take the image of the states discovered
// at the previous level and stop when nothing new shows up.
func explore(b *ludd.LDD, m *sylvan.Model, logger *slog.Logger) (*result, error) {
	start := time.Now()
	states := m.Initial
	todo := m.Initial
	levels := 0
	for {
		succ := b.Empty()
		for _, g := range m.Groups {
			succ = b.Union(succ, b.RelProdMeta(todo, g.Relation, g.Meta))
		}
		todo = b.Minus(succ, states)
		if b.Errored() {
			return nil, fmt.Errorf("exploration failed: %s", b.Error())
		}
		if b.Equal(todo, b.Empty()) {
			break
		}
		states = b.Union(states, todo)
		levels++
		logger.Debug("level explored", "level", levels, "nodes", b.Size(states))
	}
	if b.Errored() {
		return nil, fmt.Errorf("exploration failed: %s", b.Error())
	}
	return &result{
		states: states,
		count:  b.Count(states),
		levels: levels,
		took:   time.Since(start),
	}, nil
}
