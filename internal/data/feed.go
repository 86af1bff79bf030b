// Package data loads stock bar files and the metadata index from disk,
// validates them, and picks playable instruments and starting indices.
//
// On-disk layout (produced by the fetch script):
//
//	<dir>/metadata.json        index of available stocks
//	<dir>/stocks/<ticker>.json full bar history per stock
package data

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"chartarcade/internal/model"
)

// Feed serves stock snapshots from a data directory. Metadata is read
// once at open; bar files are read on demand.
type Feed struct {
	dir     string
	metas   []model.Meta
	minBars int
}

// Open reads and verifies the metadata index. minBars is the minimum
// playable bar count (lookback + forward requirement); stocks below it
// are dropped from the index with a warning left to the caller's log.
func Open(dir string, minBars int) (*Feed, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("data: read metadata: %w", err)
	}

	var all []model.Meta
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("data: parse metadata: %w", err)
	}

	metas := make([]model.Meta, 0, len(all))
	for _, m := range all {
		if m.BarCount >= minBars {
			metas = append(metas, m)
		}
	}
	if len(metas) == 0 {
		return nil, fmt.Errorf("data: no stock in %s has the required %d bars", dir, minBars)
	}

	return &Feed{dir: dir, metas: metas, minBars: minBars}, nil
}

// Metas returns a copy of the playable stock index.
func (f *Feed) Metas() []model.Meta {
	cp := make([]model.Meta, len(f.metas))
	copy(cp, f.metas)
	return cp
}

// Load reads and validates one stock's full bar file.
func (f *Feed) Load(ticker string) (*model.Stock, error) {
	path := filepath.Join(f.dir, "stocks", strings.ToLower(ticker)+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("data: read %s: %w", ticker, err)
	}

	var s model.Stock
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("data: parse %s: %w", ticker, err)
	}
	if err := Validate(&s, f.minBars); err != nil {
		return nil, fmt.Errorf("data: %s: %w", ticker, err)
	}
	return &s, nil
}

// Pick selects a random playable ticker, excluding the one currently in
// play so a switch always reveals a different chart (unless only one
// stock exists).
func (f *Feed) Pick(rng *rand.Rand, exclude string) model.Meta {
	candidates := f.metas
	if len(f.metas) > 1 && exclude != "" {
		candidates = make([]model.Meta, 0, len(f.metas)-1)
		for _, m := range f.metas {
			if !strings.EqualFold(m.Ticker, exclude) {
				candidates = append(candidates, m)
			}
		}
	}
	return candidates[rng.Intn(len(candidates))]
}

// StartIndex picks a uniform random starting bar index honoring the
// lookback/forward policy: at least lookbackMin bars of history before
// it and forwardMin bars of future after it.
func StartIndex(barCount, lookbackMin, forwardMin int, rng *rand.Rand) (int, error) {
	lo := lookbackMin
	hi := barCount - forwardMin - 1
	if hi < lo {
		return 0, fmt.Errorf("data: %d bars cannot satisfy lookback %d + forward %d",
			barCount, lookbackMin, forwardMin)
	}
	return lo + rng.Intn(hi-lo+1), nil
}
