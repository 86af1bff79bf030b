// cmd/replay plays automated sessions through the turn engine against
// the local data files: a quick sanity harness for game balance and
// indicator behavior without a frontend.
//
// Usage:
//
//	go run ./cmd/replay --data=data --charts=10 --turns=25 --policy=rsi
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"chartarcade/internal/data"
	"chartarcade/internal/game"
	"chartarcade/internal/indicator"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	dataDir := flag.String("data", "data", "Stock data directory")
	charts := flag.Int("charts", 10, "Charts to play")
	turns := flag.Int("turns", 25, "Turns per chart")
	seed := flag.Int64("seed", 1, "RNG seed")
	policy := flag.String("policy", "random", "Bot policy: random | rsi | hold")
	flag.Parse()

	cfg := game.DefaultConfig()
	feed, err := data.Open(*dataDir, cfg.LookbackMin+cfg.ForwardMin+1)
	if err != nil {
		log.Fatalf("[replay] data load failed: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	g := game.New(cfg, game.SessionStats{})

	for c := 0; c < *charts; c++ {
		outgoing, _ := g.Switch()
		meta := feed.Pick(rng, outgoing)
		stock, err := feed.Load(meta.Ticker)
		if err != nil {
			log.Fatalf("[replay] load %s: %v", meta.Ticker, err)
		}
		start, err := data.StartIndex(stock.BarCount(), cfg.LookbackMin, cfg.ForwardMin, rng)
		if err != nil {
			log.Fatalf("[replay] start index: %v", err)
		}
		g.LoadStock(stock, start)

		for t := 0; t < *turns; t++ {
			if !step(g, *policy, rng) {
				break
			}
		}

		stats := g.Stats()
		fmt.Printf("[%2d] %-6s turns=%-4d equity=%9.2f streak=%+d\n",
			c+1, meta.Ticker, g.Turn(), g.Equity(), stats.CurrentStreak)
	}

	printSummary(g.Stats(), *policy)
	if g.Stats().TotalTurns == 0 {
		os.Exit(1)
	}
}

// step makes one bot decision. Returns false when the chart ran out of
// scoreable bars.
func step(g *game.Game, policy string, rng *rand.Rand) bool {
	before := g.Turn()

	switch policy {
	case "hold":
		if g.Position() == nil {
			g.Buy(100)
		} else {
			g.Skip()
		}

	case "rsi":
		// Classic mean reversion: buy oversold, sell overbought.
		rsi := indicator.RSISeries(g.VisibleBars(), 14)
		val, ok := rsi.At(g.BarIndex())
		switch {
		case ok && val < 30 && g.Cash() > 0:
			g.Buy(50)
		case ok && val > 70 && g.Position() != nil:
			g.Sell(100)
		default:
			g.Skip()
		}

	default: // random
		switch rng.Intn(3) {
		case 0:
			if !g.Buy(float64(10 + rng.Intn(90))) {
				g.Skip()
			}
		case 1:
			if !g.Sell(float64(10 + rng.Intn(90))) {
				g.Skip()
			}
		default:
			g.Skip()
		}
	}

	return g.Turn() > before
}

func printSummary(stats game.SessionStats, policy string) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║          REPLAY COMPLETE             ║")
	fmt.Println("╠══════════════════════════════════════╣")
	fmt.Printf("║  Policy:        %-20s ║\n", policy)
	fmt.Printf("║  Charts viewed: %-20d ║\n", stats.ChartsViewed)
	fmt.Printf("║  Turns:         %-20d ║\n", stats.TotalTurns)
	fmt.Printf("║  Trades:        %-20d ║\n", stats.TotalTrades)
	fmt.Printf("║  W/L/F:         %d/%d/%-14d ║\n", stats.Wins, stats.Losses, stats.Flats)
	fmt.Printf("║  Win rate:      %-20.1f ║\n", stats.WinRate()*100)
	fmt.Printf("║  Best streak:   %-20d ║\n", stats.BestStreak)
	fmt.Printf("║  Worst streak:  %-20d ║\n", stats.WorstStreak)
	fmt.Println("╚══════════════════════════════════════╝")
}
