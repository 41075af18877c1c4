package challenge

import "math"

// UserPercentage returns the share of completed markers as a percentage rounded to two decimals.
// ok is false for an empty row: a participant with no tasks has no percentage at all.
func UserPercentage(markers []bool) (pct float64, ok bool) {
	if len(markers) == 0 {
		return 0, false
	}
	done := 0
	for _, m := range markers {
		if m {
			done++
		}
	}
	return round2(float64(done) / float64(len(markers)) * 100), true
}

// GroupProgress is the mean of the contributing participants' percentages.
func GroupProgress(progress map[int64][]bool) float64 {
	sum := 0.0
	n := 0
	for _, row := range progress {
		if pct, ok := UserPercentage(row); ok {
			sum += pct
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round2(sum / float64(n))
}

// LeaderboardPercentage scores a row against the current task count. Rows that are
// missing or sized for a different task list score zero.
func LeaderboardPercentage(row []bool, taskCount int) float64 {
	if taskCount == 0 || len(row) != taskCount {
		return 0
	}
	pct, _ := UserPercentage(row)
	return pct
}

func emptyRow(taskCount int) []bool {
	return make([]bool, taskCount)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
