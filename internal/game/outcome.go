package game

import "chartarcade/internal/model"

// Classify buckets the move from cur to next against the flat threshold
// eps (relative change). Moves within ±eps are flat.
func Classify(cur, next, eps float64) Direction {
	change := (next - cur) / cur
	switch {
	case change > eps:
		return DirectionUp
	case change < -eps:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// InferPrediction derives the player's implied next-bar call from their
// holding: long means up, flat means down. There is no explicit
// up/down input in the game; the position sign is the prediction.
func InferPrediction(p *Position, shareEps float64) Direction {
	if p != nil && p.Shares > shareEps {
		return DirectionUp
	}
	return DirectionDown
}

// scoreTurn computes the outcome record for a decision made at bar idx.
// before/after are the position snapshots around the action; prediction
// inference reads the post-action position (for Skip the two are the
// same, for Buy/Sell the mutation has already happened).
//
// Pure: no state is read or written beyond the arguments. Returns nil
// when no next bar exists: the forward-minimum load precondition makes
// that unreachable in normal play.
func scoreTurn(bars []model.Bar, idx, turn int, action Action, before, after *Position, eps, shareEps float64) *TurnOutcome {
	if idx < 0 || idx+1 >= len(bars) {
		return nil
	}
	cur := bars[idx].Close
	next := bars[idx+1].Close

	actual := Classify(cur, next, eps)
	prediction := InferPrediction(after, shareEps)

	verdict := VerdictNone
	if actual != DirectionFlat {
		if prediction == actual {
			verdict = VerdictWin
		} else {
			verdict = VerdictLoss
		}
	}

	return &TurnOutcome{
		Turn:           turn,
		BarIndex:       idx,
		Action:         action,
		PositionBefore: before,
		PositionAfter:  after,
		Prediction:     prediction,
		Actual:         actual,
		Verdict:        verdict,
		PriceNow:       cur,
		PriceNext:      next,
	}
}
