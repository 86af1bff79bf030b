package model

// Stock is a loaded instrument snapshot: one ticker and its full ordered
// daily bar history. Read-only after load; at most one is live in a game
// at a time, replaced wholesale on instrument switch.
type Stock struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name,omitempty"`
	Sector string `json:"sector,omitempty"`
	Bars   []Bar  `json:"bars"`
}

// BarCount returns the number of bars in the snapshot.
func (s *Stock) BarCount() int { return len(s.Bars) }

// Meta is one entry of the metadata index used to pick and validate
// instruments before loading the full bar file.
type Meta struct {
	Ticker    string `json:"ticker"`
	Name      string `json:"name"`
	Sector    string `json:"sector"`
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
	BarCount  int    `json:"barCount"`
}
