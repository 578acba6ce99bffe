package view_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"droscher.com/Portafilter/pkg/model"
	"droscher.com/Portafilter/pkg/view"
)

var base = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func shot(id, beanID string, rating float64, minutes int) model.Shot {
	return model.Shot{
		ID:        id,
		BeanID:    beanID,
		Rating:    rating,
		Dose:      18,
		Yield:     36,
		Time:      30,
		Timestamp: base.Add(time.Duration(minutes) * time.Minute),
	}
}

func ids(shots []model.Shot) []string {
	result := make([]string, 0, len(shots))
	for _, s := range shots {
		result = append(result, s.ID)
	}

	return result
}

func TestBestShot_PrefersOptimalRegardlessOfRating(t *testing.T) {
	optimal := shot("low", "a", 3, 1)
	optimal.IsOptimal = true
	shots := []model.Shot{shot("high", "a", 9, 2), optimal}

	best, found := view.BestShot(shots, "a")

	require.True(t, found)
	assert.Equal(t, "low", best.ID)
}

func TestBestShot_HighestRating(t *testing.T) {
	shots := []model.Shot{shot("six", "a", 6, 3), shot("nine", "a", 9, 2), shot("four", "a", 4, 1), shot("other", "b", 10, 4)}

	best, found := view.BestShot(shots, "a")

	require.True(t, found)
	assert.Equal(t, "nine", best.ID)
}

func TestBestShot_TieGoesToFirstInStoreOrder(t *testing.T) {
	shots := []model.Shot{shot("newer", "a", 8, 2), shot("older", "a", 8, 1)}

	best, _ := view.BestShot(shots, "a")

	assert.Equal(t, "newer", best.ID)
}

func TestBestShot_NoShots(t *testing.T) {
	_, found := view.BestShot([]model.Shot{shot("x", "b", 5, 1)}, "a")

	assert.False(t, found)
}

func TestAverageRating(t *testing.T) {
	shots := []model.Shot{shot("1", "a", 7, 1), shot("2", "a", 8, 2), shot("3", "a", 8, 3), shot("4", "b", 1, 4)}

	average, found := view.AverageRating(shots, "a")
	require.True(t, found)
	assert.InDelta(t, 7.7, average, 0.0001)

	_, found = view.AverageRating(shots, "c")
	assert.False(t, found)
}

func TestSortedShots_Recent(t *testing.T) {
	shots := []model.Shot{shot("mid", "a", 5, 2), shot("old", "a", 9, 1), shot("new", "a", 1, 3), shot("b", "b", 1, 9)}

	assert.Equal(t, []string{"new", "mid", "old"}, ids(view.SortedShots(shots, "a", view.SortRecent)))
}

func TestSortedShots_RatingIsStable(t *testing.T) {
	shots := []model.Shot{shot("first7", "a", 7, 1), shot("nine", "a", 9, 2), shot("second7", "a", 7, 3)}

	assert.Equal(t, []string{"nine", "first7", "second7"}, ids(view.SortedShots(shots, "a", view.SortRating)))
}

func TestSortShots_DoesNotMutateInput(t *testing.T) {
	shots := []model.Shot{shot("old", "a", 1, 1), shot("new", "a", 2, 2)}

	view.SortShots(shots, view.SortRecent)

	assert.Equal(t, []string{"old", "new"}, ids(shots))
}

func TestSortModeToggle(t *testing.T) {
	assert.Equal(t, view.SortRecent, view.SortRating.Toggle())
	assert.Equal(t, view.SortRating, view.SortRecent.Toggle())
	assert.Equal(t, view.SortRecent, view.ParseSortMode("bogus"))
}

func TestStatsForBean(t *testing.T) {
	shots := []model.Shot{shot("1", "a", 6, 1), shot("2", "a", 9, 2)}
	shots[1].Yield = 45

	stats := view.StatsForBean(shots, "a")

	assert.Equal(t, 2, stats.ShotCount)
	require.NotNil(t, stats.AverageRating)
	assert.InDelta(t, 7.5, *stats.AverageRating, 0.0001)
	assert.Equal(t, "2", stats.BestShotID)
	assert.InDelta(t, 2.3, stats.AverageRatio, 0.0001)

	empty := view.StatsForBean(shots, "none")
	assert.Nil(t, empty.AverageRating)
	assert.Empty(t, empty.BestShotID)
}

func TestStatsForLog_CountsOrphans(t *testing.T) {
	snapshot := model.Snapshot{
		Beans: []model.Bean{{ID: "a"}},
		Shots: []model.Shot{shot("1", "a", 6, 1), shot("2", "gone", 8, 2)},
	}

	stats := view.StatsForLog(snapshot)

	assert.Equal(t, 1, stats.OrphanShots)
	assert.InDelta(t, 7.0, *stats.AverageRating, 0.0001)
}

func TestParseState(t *testing.T) {
	state, err := view.ParseState(url.Values{"screen": {"bean"}, "bean": {"a"}, "sort": {"rating"}})
	require.NoError(t, err)
	assert.Equal(t, view.BeanDetails{BeanID: "a", Sort: view.SortRating}, state)

	state, err = view.ParseState(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, view.BeanList{}, state)

	_, err = view.ParseState(url.Values{"screen": {"roaster"}})
	require.ErrorIs(t, err, view.ErrUnknownScreen)
}

func TestBuild_BeanDetails(t *testing.T) {
	snapshot := model.Snapshot{
		Beans: []model.Bean{{ID: "a", Name: "Stereo"}},
		Shots: []model.Shot{shot("1", "a", 6, 1), shot("2", "a", 9, 2)},
	}

	page := view.Build(snapshot, view.BeanDetails{BeanID: "a", Sort: view.SortRating})

	assert.Equal(t, view.ScreenBeanDetails, page.Screen)
	require.NotNil(t, page.Bean)
	assert.Equal(t, "2", page.Bean.BestShot.ID)
	assert.Equal(t, []string{"2", "1"}, ids(page.Shots))
	assert.Equal(t, view.SortRecent, page.NextSort)
}

func TestBuild_UnknownBeanFallsBackToList(t *testing.T) {
	snapshot := model.Snapshot{Beans: []model.Bean{{ID: "a"}}}

	page := view.Build(snapshot, view.ShotForm{BeanID: "missing"})

	assert.Equal(t, view.ScreenBeanList, page.Screen)
	assert.Len(t, page.Beans, 1)
}
