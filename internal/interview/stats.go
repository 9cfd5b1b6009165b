package interview

import "math"

// Stats сводка по истории практических интервью студента
type Stats struct {
	TotalPractices    int `json:"totalPractices"`
	AverageScore      int `json:"averageScore"`
	BestScore         int `json:"bestScore"`
	TechnicalCount    int `json:"technicalCount"`
	HRCount           int `json:"hrCount"`
	AptitudeCount     int `json:"aptitudeCount"`
	RecentImprovement int `json:"recentImprovement"`
}

// ComputeStats считает статистику по записям, отсортированным от новых к старым
func ComputeStats(records []SessionSummary) Stats {
	if len(records) == 0 {
		return Stats{}
	}

	var stats Stats
	stats.TotalPractices = len(records)

	sum := 0
	for i, r := range records {
		sum += r.Percentage
		if i == 0 || r.Percentage > stats.BestScore {
			stats.BestScore = r.Percentage
		}
		switch r.RoundType {
		case RoundTechnical:
			stats.TechnicalCount++
		case RoundHR:
			stats.HRCount++
		case RoundAptitude:
			stats.AptitudeCount++
		}
	}
	stats.AverageScore = int(math.Round(float64(sum) / float64(len(records))))

	// последние 3 против предыдущих (до 3)
	if len(records) >= 4 {
		recent := meanPercentage(records[:3])
		end := len(records)
		if end > 6 {
			end = 6
		}
		previous := meanPercentage(records[3:end])
		stats.RecentImprovement = int(math.Round(recent - previous))
	}

	return stats
}

func meanPercentage(records []SessionSummary) float64 {
	sum := 0
	for _, r := range records {
		sum += r.Percentage
	}
	return float64(sum) / float64(len(records))
}
