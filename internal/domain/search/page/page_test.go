package page

import "testing"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{5, 0, 0},
	}
	for _, tc := range tests {
		if got := TotalPages(tc.total, tc.size); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestNavigation_Bounds(t *testing.T) {
	first := Navigation(1, 30, 10, false)
	if first.CanPrev {
		t.Error("previous must be disabled on page 1")
	}
	if !first.CanNext {
		t.Error("next must be enabled on page 1 of 3")
	}

	last := Navigation(3, 30, 10, false)
	if !last.CanPrev || last.CanNext {
		t.Errorf("unexpected controls on last page: %+v", last)
	}
	if last.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", last.TotalPages)
	}
}

func TestNavigation_InFlightDisablesBoth(t *testing.T) {
	n := Navigation(2, 30, 10, true)
	if n.CanPrev || n.CanNext {
		t.Errorf("controls must be disabled while loading: %+v", n)
	}
}

func TestNavigation_NoResults(t *testing.T) {
	n := Navigation(1, 0, 10, false)
	if n.CanPrev || n.CanNext {
		t.Errorf("no navigation expected without results: %+v", n)
	}
}

func TestEmpty(t *testing.T) {
	e := Empty()
	if e.Cases == nil || len(e.Cases) != 0 || e.TotalResults != 0 {
		t.Errorf("unexpected empty result: %+v", e)
	}
}
