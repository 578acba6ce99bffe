package view

import (
	"math"
	"slices"

	"droscher.com/Portafilter/pkg/model"
)

type SortMode string

const (
	SortRating SortMode = "rating"
	SortRecent SortMode = "recent"
)

// ParseSortMode falls back to SortRecent for anything it does not know.
func ParseSortMode(value string) SortMode {
	if SortMode(value) == SortRating {
		return SortRating
	}

	return SortRecent
}

func (m SortMode) Toggle() SortMode {
	if m == SortRating {
		return SortRecent
	}

	return SortRating
}

func ShotsForBean(shots []model.Shot, beanID string) []model.Shot {
	result := make([]model.Shot, 0)

	for _, shot := range shots {
		if shot.BeanID == beanID {
			result = append(result, shot)
		}
	}

	return result
}

// BestShot returns the shot marked optimal for the bean, or else the highest
// rated one. Equal ratings resolve to the shot that comes first in store
// order, which is the most recently logged.
func BestShot(shots []model.Shot, beanID string) (model.Shot, bool) {
	var (
		best  model.Shot
		found bool
	)

	for _, shot := range shots {
		if shot.BeanID != beanID {
			continue
		}

		if shot.IsOptimal {
			return shot, true
		}

		if !found || shot.Rating > best.Rating {
			best = shot
			found = true
		}
	}

	return best, found
}

func AverageRating(shots []model.Shot, beanID string) (float64, bool) {
	var (
		sum   float64
		count int
	)

	for _, shot := range shots {
		if shot.BeanID == beanID {
			sum += shot.Rating
			count++
		}
	}

	if count == 0 {
		return 0, false
	}

	return math.Round(sum/float64(count)*10) / 10, true
}

// SortShots returns a sorted copy. Equal keys keep their relative order.
func SortShots(shots []model.Shot, mode SortMode) []model.Shot {
	sorted := slices.Clone(shots)

	if mode == SortRating {
		slices.SortStableFunc(sorted, func(a, b model.Shot) int {
			return compareDesc(a.Rating, b.Rating)
		})
	} else {
		slices.SortStableFunc(sorted, func(a, b model.Shot) int {
			return b.Timestamp.Compare(a.Timestamp)
		})
	}

	return sorted
}

func SortedShots(shots []model.Shot, beanID string, mode SortMode) []model.Shot {
	return SortShots(ShotsForBean(shots, beanID), mode)
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
