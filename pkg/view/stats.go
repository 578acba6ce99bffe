package view

import (
	"math"

	"droscher.com/Portafilter/pkg/model"
)

type BeanStats struct {
	BeanID        string   `json:"beanId"`
	ShotCount     int      `json:"shotCount"`
	AverageRating *float64 `json:"averageRating,omitempty"`
	BestShotID    string   `json:"bestShotId,omitempty"`
	AverageRatio  float64  `json:"averageRatio"`
	AverageTime   float64  `json:"averageTime"`
}

type LogStats struct {
	BeanCount     int      `json:"beanCount"`
	ShotCount     int      `json:"shotCount"`
	OrphanShots   int      `json:"orphanShots"`
	AverageRating *float64 `json:"averageRating,omitempty"`
}

func StatsForBean(shots []model.Shot, beanID string) BeanStats {
	stats := BeanStats{BeanID: beanID}

	var ratio, seconds float64

	for _, shot := range ShotsForBean(shots, beanID) {
		stats.ShotCount++
		ratio += shot.Ratio()
		seconds += shot.Time
	}

	if stats.ShotCount == 0 {
		return stats
	}

	if average, ok := AverageRating(shots, beanID); ok {
		stats.AverageRating = &average
	}

	if best, ok := BestShot(shots, beanID); ok {
		stats.BestShotID = best.ID
	}

	stats.AverageRatio = roundTenth(ratio / float64(stats.ShotCount))
	stats.AverageTime = roundTenth(seconds / float64(stats.ShotCount))

	return stats
}

// StatsForLog counts shots whose bean no longer exists as orphans; they stay
// in the log but are never shown.
func StatsForLog(snapshot model.Snapshot) LogStats {
	stats := LogStats{BeanCount: len(snapshot.Beans), ShotCount: len(snapshot.Shots)}

	beans := make(map[string]struct{}, len(snapshot.Beans))
	for _, bean := range snapshot.Beans {
		beans[bean.ID] = struct{}{}
	}

	var sum float64

	for _, shot := range snapshot.Shots {
		if _, found := beans[shot.BeanID]; !found {
			stats.OrphanShots++
		}

		sum += shot.Rating
	}

	if stats.ShotCount > 0 {
		average := roundTenth(sum / float64(stats.ShotCount))
		stats.AverageRating = &average
	}

	return stats
}

func roundTenth(value float64) float64 {
	return math.Round(value*10) / 10
}
