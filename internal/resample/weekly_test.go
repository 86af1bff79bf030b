package resample

import (
	"reflect"
	"testing"
	"time"

	"chartarcade/internal/model"
)

func day(y int, m time.Month, d int, o, h, l, c float64, v int64) model.Bar {
	return model.Bar{Time: model.NewDate(y, m, d), Open: o, High: h, Low: l, Close: c, Volume: v}
}

func TestWeeklyMergesOneWeek(t *testing.T) {
	// Mon 2024-01-08 through Fri 2024-01-12, one ISO week
	bars := []model.Bar{
		day(2024, time.January, 8, 100, 103, 99, 102, 1000),
		day(2024, time.January, 9, 102, 108, 101, 107, 2000),
		day(2024, time.January, 10, 107, 107, 95, 96, 1500),
		day(2024, time.January, 11, 96, 99, 94, 98, 500),
		day(2024, time.January, 12, 98, 101, 97, 100, 700),
	}

	out := Weekly(bars)
	if len(out) != 1 {
		t.Fatalf("weekly count = %d, want 1", len(out))
	}

	w := out[0]
	if w.Open != 100 {
		t.Errorf("open = %v, want the Monday open", w.Open)
	}
	if w.Close != 100 {
		t.Errorf("close = %v, want the Friday close", w.Close)
	}
	if w.High != 108 || w.Low != 94 {
		t.Errorf("extrema = %v/%v, want 108/94", w.High, w.Low)
	}
	if w.Volume != 5700 {
		t.Errorf("volume = %d, want 5700", w.Volume)
	}
	if w.Time.String() != "2024-01-12" {
		t.Errorf("week bar dated %s, want the last trading day", w.Time)
	}
}

func TestWeeklySplitsAtWeekBoundary(t *testing.T) {
	bars := []model.Bar{
		day(2024, time.January, 11, 100, 101, 99, 100, 10), // Thu, week 2
		day(2024, time.January, 12, 100, 102, 99, 101, 10), // Fri, week 2
		day(2024, time.January, 15, 101, 104, 100, 103, 10), // Mon, week 3
	}

	out := Weekly(bars)
	if len(out) != 2 {
		t.Fatalf("weekly count = %d, want 2", len(out))
	}
	if out[0].Time.String() != "2024-01-12" || out[1].Time.String() != "2024-01-15" {
		t.Errorf("week dates = %s, %s", out[0].Time, out[1].Time)
	}
	if out[0].Close != 101 || out[1].Open != 101 {
		t.Errorf("boundary OHLC leaked across weeks")
	}
}

func TestWeeklyISOYearBoundary(t *testing.T) {
	// 2024-12-27 is a Friday in ISO week 52 of 2024; 2024-12-30 (Monday)
	// already belongs to ISO week 1 of 2025. Calendar-year grouping
	// would merge these.
	bars := []model.Bar{
		day(2024, time.December, 27, 100, 101, 99, 100, 10),
		day(2024, time.December, 30, 100, 103, 100, 102, 10),
		day(2024, time.December, 31, 102, 104, 101, 103, 10),
		day(2025, time.January, 2, 103, 105, 102, 104, 10),
	}

	out := Weekly(bars)
	if len(out) != 2 {
		t.Fatalf("weekly count = %d, want 2 across the ISO year boundary", len(out))
	}
	if out[1].Open != 100 || out[1].Close != 104 || out[1].Volume != 30 {
		t.Errorf("new-year week merged wrong: %+v", out[1])
	}
}

func TestWeeklyHolidayShortWeek(t *testing.T) {
	// A week with no Monday bar still forms one weekly bar from the
	// days present.
	bars := []model.Bar{
		day(2024, time.July, 2, 50, 52, 49, 51, 5), // Tue
		day(2024, time.July, 3, 51, 53, 50, 52, 5), // Wed
		day(2024, time.July, 5, 52, 54, 51, 53, 5), // Fri
	}
	out := Weekly(bars)
	if len(out) != 1 {
		t.Fatalf("weekly count = %d, want 1", len(out))
	}
	if out[0].Open != 50 || out[0].Close != 53 || out[0].Volume != 15 {
		t.Errorf("short week merged wrong: %+v", out[0])
	}
}

func TestWeeklyEdgeSizes(t *testing.T) {
	if Weekly(nil) != nil {
		t.Error("nil input should produce nil")
	}
	single := []model.Bar{day(2024, time.March, 6, 10, 11, 9, 10, 1)}
	out := Weekly(single)
	if len(out) != 1 || out[0] != single[0] {
		t.Errorf("single bar should pass through: %+v", out)
	}
}

func TestWeeklyDeterministic(t *testing.T) {
	bars := []model.Bar{
		day(2024, time.February, 5, 1, 2, 0.5, 1.5, 1),
		day(2024, time.February, 6, 1.5, 3, 1, 2.5, 2),
		day(2024, time.February, 12, 2.5, 4, 2, 3, 3),
	}
	if !reflect.DeepEqual(Weekly(bars), Weekly(bars)) {
		t.Error("resampling the same prefix twice differed")
	}
}
