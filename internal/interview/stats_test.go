package interview

import "testing"

func rec(round Round, pct int) SessionSummary {
	return SessionSummary{RoundType: round, Percentage: pct}
}

func TestComputeStats_Empty(t *testing.T) {
	if s := ComputeStats(nil); s != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", s)
	}
}

func TestComputeStats_Counts(t *testing.T) {
	records := []SessionSummary{
		rec(RoundTechnical, 80),
		rec(RoundHR, 60),
		rec(RoundTechnical, 70),
	}
	s := ComputeStats(records)
	if s.TotalPractices != 3 || s.AverageScore != 70 || s.BestScore != 80 {
		t.Fatalf("unexpected stats: %+v", s)
	}
	if s.TechnicalCount != 2 || s.HRCount != 1 || s.AptitudeCount != 0 {
		t.Fatalf("unexpected round counts: %+v", s)
	}
	if s.RecentImprovement != 0 {
		t.Fatalf("improvement needs at least 4 records")
	}
}

func TestComputeStats_RecentImprovement(t *testing.T) {
	// newest first: recent three avg 70, previous one avg 40
	records := []SessionSummary{
		rec(RoundHR, 80),
		rec(RoundHR, 70),
		rec(RoundHR, 60),
		rec(RoundAptitude, 40),
	}
	if s := ComputeStats(records); s.RecentImprovement != 30 {
		t.Fatalf("expected +30, got %d", s.RecentImprovement)
	}

	// only records 3..5 count as previous
	records = append(records, rec(RoundHR, 40), rec(RoundHR, 40), rec(RoundHR, 0))
	if s := ComputeStats(records); s.RecentImprovement != 30 {
		t.Fatalf("expected +30 with window of 3, got %d", s.RecentImprovement)
	}
}
