package model

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func bar(d int, c float64) PriceBar {
	return PriceBar{Date: day(d), Close: c}
}

func TestNormalizeBars(t *testing.T) {
	tests := []struct {
		name      string
		in        []PriceBar
		wantDays  []int
		wantClose []float64
	}{
		{"empty", nil, nil, nil},
		{"already oldest first", []PriceBar{bar(1, 10), bar(4, 11), bar(5, 12)}, []int{1, 4, 5}, []float64{10, 11, 12}},
		{"newest first", []PriceBar{bar(5, 12), bar(4, 11), bar(1, 10)}, []int{1, 4, 5}, []float64{10, 11, 12}},
		{"duplicate date last wins", []PriceBar{bar(4, 11), bar(1, 10), bar(4, 99)}, []int{1, 4}, []float64{10, 99}},
		{"same day different hour", []PriceBar{
			bar(4, 11),
			{Date: day(4).Add(16 * time.Hour), Close: 12},
		}, []int{4}, []float64{12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBars(tt.in)
			if len(got) != len(tt.wantDays) {
				t.Fatalf("got %d bars, want %d: %+v", len(got), len(tt.wantDays), got)
			}
			for i, b := range got {
				if b.Date.Day() != tt.wantDays[i] || b.Close != tt.wantClose[i] {
					t.Errorf("bar %d = %s %.2f, want day %d close %.2f",
						i, b.Date.Format("2006-01-02"), b.Close, tt.wantDays[i], tt.wantClose[i])
				}
			}
		})
	}
}

func TestNormalizeBars_DoesNotMutateInput(t *testing.T) {
	in := []PriceBar{bar(5, 12), bar(1, 10)}
	NormalizeBars(in)
	if in[0].Date.Day() != 5 || in[1].Date.Day() != 1 {
		t.Errorf("input reordered: %+v", in)
	}
}

func TestPriceSeriesHelpers(t *testing.T) {
	s := PriceSeries{Bars: []PriceBar{
		{Date: day(1), Close: 10, Volume: 100},
		{Date: day(4), Close: 11, Volume: 200},
	}}
	if s.Len() != 2 {
		t.Errorf("Len = %d", s.Len())
	}
	if c := s.Closes(); c[0] != 10 || c[1] != 11 {
		t.Errorf("Closes = %v", c)
	}
	if v := s.Volumes(); v[0] != 100 || v[1] != 200 {
		t.Errorf("Volumes = %v", v)
	}
	if latest, ok := s.Latest(); !ok || latest.Close != 11 {
		t.Errorf("Latest = %+v, %v", latest, ok)
	}
	if _, ok := (PriceSeries{}).Latest(); ok {
		t.Error("Latest on empty series reported ok")
	}
}
