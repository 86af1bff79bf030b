package game

// record applies one scored turn to the aggregate counters.
//
// Streaks: a win extends a positive streak or restarts it at 1, a loss
// extends a negative streak or restarts it at -1. Flat turns leave the
// streak untouched and count only toward Flats.
func (s *SessionStats) record(o *TurnOutcome) {
	s.TotalTurns++

	switch o.Verdict {
	case VerdictWin:
		s.Wins++
		if s.CurrentStreak > 0 {
			s.CurrentStreak++
		} else {
			s.CurrentStreak = 1
		}
		if s.CurrentStreak > s.BestStreak {
			s.BestStreak = s.CurrentStreak
		}
	case VerdictLoss:
		s.Losses++
		if s.CurrentStreak < 0 {
			s.CurrentStreak--
		} else {
			s.CurrentStreak = -1
		}
		if s.CurrentStreak < s.WorstStreak {
			s.WorstStreak = s.CurrentStreak
		}
	default:
		s.Flats++
	}
}

// Reset clears all counters. Called only on an explicit stats reset,
// never on chart switch.
func (s *SessionStats) Reset() {
	*s = SessionStats{}
}
