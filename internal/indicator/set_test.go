package indicator

import (
	"reflect"
	"testing"
)

func TestSetIDsStableAcrossRemove(t *testing.T) {
	s := NewSet()
	a := s.Add(SMAParams{Period: 20}, "#f5a623")
	b := s.Add(EMAParams{Period: 9}, "#4a90d9")
	c := s.Add(RSIParams{Period: 14}, "#9b59b6")

	if a != 1 || b != 2 || c != 3 {
		t.Fatalf("ids = %d, %d, %d", a, b, c)
	}

	if !s.Remove(b) {
		t.Fatal("remove failed")
	}
	// The counter never reuses a removed ID
	d := s.Add(VWAPParams{}, "#e67e22")
	if d != 4 {
		t.Errorf("id after remove = %d, want 4", d)
	}

	got := s.Overlays()
	wantIDs := []int{1, 3, 4}
	if len(got) != len(wantIDs) {
		t.Fatalf("overlay count = %d", len(got))
	}
	for i, o := range got {
		if o.ID != wantIDs[i] {
			t.Errorf("overlay[%d].ID = %d, want %d (insertion order)", i, o.ID, wantIDs[i])
		}
	}
}

func TestSetRemoveUnknownID(t *testing.T) {
	s := NewSet()
	s.Add(SMAParams{Period: 10}, "")
	if s.Remove(99) {
		t.Error("removing an unknown ID should report false")
	}
	if s.SetEnabled(99, false) {
		t.Error("toggling an unknown ID should report false")
	}
}

func TestSetEnabledFiltersEvaluation(t *testing.T) {
	bars := closeBars(100, 102, 104, 106, 108)
	s := NewSet()
	smaID := s.Add(SMAParams{Period: 3}, "#111111")
	s.Add(EMAParams{Period: 3}, "#222222")

	if got := len(s.EvaluateAll(bars)); got != 2 {
		t.Fatalf("series count = %d, want 2", got)
	}

	s.SetEnabled(smaID, false)
	out := s.EvaluateAll(bars)
	if len(out) != 1 || out[0].Name != "EMA_3" {
		t.Errorf("disabled overlay still evaluated: %+v", out)
	}

	s.SetEnabled(smaID, true)
	if got := len(s.EvaluateAll(bars)); got != 2 {
		t.Errorf("re-enabled series count = %d, want 2", got)
	}
}

func TestOverlayEvaluateIdempotent(t *testing.T) {
	bars := closeBars(100, 102, 104, 103, 105, 107, 106)
	o := Overlay{ID: 1, Enabled: true, Color: "#333333", Params: MACDParams{FastPeriod: 2, SlowPeriod: 3, SignalPeriod: 2}}

	first := o.Evaluate(bars)
	second := o.Evaluate(bars)
	if !reflect.DeepEqual(first, second) {
		t.Error("Evaluate is not idempotent for the same prefix")
	}
	if len(first) != 3 {
		t.Fatalf("MACD series count = %d, want 3", len(first))
	}
	for _, sr := range first[:2] {
		if sr.Color != "#333333" {
			t.Errorf("series %s color = %q", sr.Name, sr.Color)
		}
	}

	// The histogram keeps its sign-dependent per-point colors; the
	// overlay color does not flatten them.
	hist := first[2]
	if len(hist.Colors) != hist.Len() || hist.Len() == 0 {
		t.Fatalf("histogram colors = %d entries for %d values", len(hist.Colors), hist.Len())
	}
	if hist.Color == "#333333" {
		t.Error("overlay color overwrote the histogram's per-point coloring")
	}
	for i, v := range hist.Values {
		if hist.Colors[i] != HistogramColor(v) {
			t.Errorf("hist color[%d] = %s for value %v", i, hist.Colors[i], v)
		}
	}
}

func TestOverlayEvaluateBollinger(t *testing.T) {
	bars := closeBars(100, 102, 104, 106)
	o := Overlay{ID: 1, Enabled: true, Params: BollingerParams{Period: 3, StdDevMult: 2}}
	out := o.Evaluate(bars)
	if len(out) != 3 {
		t.Fatalf("bollinger series count = %d, want 3", len(out))
	}
}

func TestDefaultSet(t *testing.T) {
	s := DefaultSet()
	got := s.Overlays()
	if len(got) != 2 {
		t.Fatalf("default overlay count = %d", len(got))
	}
	if got[0].Params.Kind() != KindSMA || got[1].Params.Kind() != KindEMA {
		t.Errorf("default kinds = %s, %s", got[0].Params.Kind(), got[1].Params.Kind())
	}
	for _, o := range got {
		if !o.Enabled {
			t.Errorf("default overlay %d not enabled", o.ID)
		}
	}
}

func TestOverlaysReturnsCopy(t *testing.T) {
	s := NewSet()
	s.Add(SMAParams{Period: 5}, "")
	cp := s.Overlays()
	cp[0].Enabled = false
	if !s.Overlays()[0].Enabled {
		t.Error("mutating the returned slice leaked into the set")
	}
}
