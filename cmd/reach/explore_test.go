// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"io"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dalzilio/ludd"
	"github.com/dalzilio/ludd/sylvan"
)

// smallsizes shrinks the table sizes for the duration of a test, the
// defaults are tuned for real models.
func smallsizes(t *testing.T) {
	t.Helper()
	saveNodes, saveCache := nodesize, cachesize
	nodesize, cachesize = 10000, 2000
	t.Cleanup(func() { nodesize, cachesize = saveNodes, saveCache })
}

// writeflip writes a model with two independent 0/1 positions, each flipped
// by its own transition group. Four states are reachable from <0 0>.
func writeflip(t *testing.T, path string) {
	t.Helper()
	b, err := ludd.New()
	require.NoError(t, err)
	flip := b.MakeSet([][]uint32{{0, 1}, {1, 0}})
	m := &sylvan.Model{
		Length:  2,
		Initial: b.Singleton([]uint32{0, 0}),
		Groups: []sylvan.Group{
			{Read: []uint32{0}, Write: []uint32{0}, Relation: flip},
			{Read: []uint32{1}, Write: []uint32{1}, Relation: flip},
		},
	}
	wr, err := sylvan.Create(b, path)
	require.NoError(t, err)
	require.NoError(t, wr.WriteModel(m))
	require.NoError(t, wr.Close())
}

func TestExplore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flip.ldd")
	writeflip(t, path)

	b, err := ludd.New()
	require.NoError(t, err)
	m, err := sylvan.LoadModel(b, path)
	require.NoError(t, err)

	logger := newLogger("error", false, io.Discard)
	res, err := explore(b, m, logger)
	require.NoError(t, err)
	assert.Equal(t, 0, res.count.Cmp(big.NewInt(4)))
	assert.Equal(t, 2, res.levels)
}

func TestCheckmodel(t *testing.T) {
	smallsizes(t)
	path := filepath.Join(t.TempDir(), "flip.ldd.gz")
	writeflip(t, path)

	logger := newLogger("error", false, io.Discard)
	require.NoError(t, checkmodel(path, "4", logger))

	err := checkmodel(path, "5", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 5 states")

	err = checkmodel(path, "many", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid expected count")

	err = checkmodel(filepath.Join(t.TempDir(), "missing.ldd"), "4", logger)
	require.Error(t, err)
}

func TestRunBench(t *testing.T) {
	smallsizes(t)
	dir := t.TempDir()
	writeflip(t, filepath.Join(dir, "flip.ldd"))
	writeflip(t, filepath.Join(dir, "flip.ldd.zst"))

	saveSuite, saveParallel := suitefile, parallel
	t.Cleanup(func() { suitefile, parallel = saveSuite, saveParallel })
	suitefile = filepath.Join(dir, "suite.yaml")
	parallel = 2

	good := `models:
  - file: flip.ldd
    states: "4"
  - file: flip.ldd.zst
    states: "4"
`
	require.NoError(t, os.WriteFile(suitefile, []byte(good), 0644))
	require.NoError(t, runBench(nil, nil))

	bad := `models:
  - file: flip.ldd
    states: "3"
`
	require.NoError(t, os.WriteFile(suitefile, []byte(bad), 0644))
	err := runBench(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 3 states")

	require.NoError(t, os.WriteFile(suitefile, []byte("models: []\n"), 0644))
	require.Error(t, runBench(nil, nil))
}

func TestSuiteYAML(t *testing.T) {
	doc := `models:
  - file: philo10.ldd
    states: "18741"
  - file: blocks.2.ldd.zst
    states: "362880"
`
	var s suite
	require.NoError(t, yaml.Unmarshal([]byte(doc), &s))
	require.Len(t, s.Models, 2)
	assert.Equal(t, "philo10.ldd", s.Models[0].File)
	assert.Equal(t, "18741", s.Models[0].States)
	assert.Equal(t, "blocks.2.ldd.zst", s.Models[1].File)
	assert.Equal(t, "362880", s.Models[1].States)
}
