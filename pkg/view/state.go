package view

import (
	"errors"
	"fmt"
	"net/url"

	"droscher.com/Portafilter/pkg/model"
)

var ErrUnknownScreen = errors.New("unknown screen")

type Screen string

const (
	ScreenBeanList    Screen = "list"
	ScreenBeanDetails Screen = "bean"
	ScreenBeanForm    Screen = "bean-form"
	ScreenShotForm    Screen = "shot-form"
	ScreenSettings    Screen = "settings"
)

// State is the screen currently shown. The variants are closed: only the
// types in this package implement it.
type State interface {
	Screen() Screen
	isState()
}

type BeanList struct{}

type BeanDetails struct {
	BeanID string
	Sort   SortMode
}

// BeanForm edits the bean with BeanID, or creates a new one when it is empty.
type BeanForm struct {
	BeanID string
}

type ShotForm struct {
	BeanID string
}

type Settings struct{}

func (BeanList) Screen() Screen    { return ScreenBeanList }
func (BeanDetails) Screen() Screen { return ScreenBeanDetails }
func (BeanForm) Screen() Screen    { return ScreenBeanForm }
func (ShotForm) Screen() Screen    { return ScreenShotForm }
func (Settings) Screen() Screen    { return ScreenSettings }

func (BeanList) isState()    {}
func (BeanDetails) isState() {}
func (BeanForm) isState()    {}
func (ShotForm) isState()    {}
func (Settings) isState()    {}

func ParseState(values url.Values) (State, error) {
	beanID := values.Get("bean")

	switch Screen(values.Get("screen")) {
	case "", ScreenBeanList:
		return BeanList{}, nil
	case ScreenBeanDetails:
		return BeanDetails{BeanID: beanID, Sort: ParseSortMode(values.Get("sort"))}, nil
	case ScreenBeanForm:
		return BeanForm{BeanID: beanID}, nil
	case ScreenShotForm:
		return ShotForm{BeanID: beanID}, nil
	case ScreenSettings:
		return Settings{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScreen, values.Get("screen"))
	}
}

type BeanSummary struct {
	Bean          model.Bean  `json:"bean"`
	ShotCount     int         `json:"shotCount"`
	BestShot      *model.Shot `json:"bestShot,omitempty"`
	AverageRating *float64    `json:"averageRating,omitempty"`
}

type Page struct {
	Screen   Screen        `json:"screen"`
	Beans    []BeanSummary `json:"beans,omitempty"`
	Bean     *BeanSummary  `json:"bean,omitempty"`
	Shots    []model.Shot  `json:"shots,omitempty"`
	Sort     SortMode      `json:"sort,omitempty"`
	NextSort SortMode      `json:"nextSort,omitempty"`
	Stats    *LogStats     `json:"stats,omitempty"`
}

// Build renders the page for a state. States that reference a bean which no
// longer exists fall back to the bean list.
func Build(snapshot model.Snapshot, state State) Page {
	switch current := state.(type) {
	case BeanDetails:
		summary, found := summarize(snapshot, current.BeanID)
		if !found {
			return Build(snapshot, BeanList{})
		}

		return Page{
			Screen:   ScreenBeanDetails,
			Bean:     &summary,
			Shots:    SortedShots(snapshot.Shots, current.BeanID, current.Sort),
			Sort:     current.Sort,
			NextSort: current.Sort.Toggle(),
		}
	case BeanForm:
		if current.BeanID == "" {
			return Page{Screen: ScreenBeanForm}
		}

		summary, found := summarize(snapshot, current.BeanID)
		if !found {
			return Build(snapshot, BeanList{})
		}

		return Page{Screen: ScreenBeanForm, Bean: &summary}
	case ShotForm:
		summary, found := summarize(snapshot, current.BeanID)
		if !found {
			return Build(snapshot, BeanList{})
		}

		return Page{Screen: ScreenShotForm, Bean: &summary}
	case Settings:
		stats := StatsForLog(snapshot)

		return Page{Screen: ScreenSettings, Stats: &stats}
	default:
		return Page{Screen: ScreenBeanList, Beans: Summaries(snapshot)}
	}
}

func Summaries(snapshot model.Snapshot) []BeanSummary {
	summaries := make([]BeanSummary, 0, len(snapshot.Beans))

	for _, bean := range snapshot.Beans {
		summaries = append(summaries, summaryOf(snapshot.Shots, bean))
	}

	return summaries
}

func summarize(snapshot model.Snapshot, beanID string) (BeanSummary, bool) {
	for _, bean := range snapshot.Beans {
		if bean.ID == beanID {
			return summaryOf(snapshot.Shots, bean), true
		}
	}

	return BeanSummary{}, false
}

func summaryOf(shots []model.Shot, bean model.Bean) BeanSummary {
	summary := BeanSummary{Bean: bean, ShotCount: len(ShotsForBean(shots, bean.ID))}

	if best, found := BestShot(shots, bean.ID); found {
		summary.BestShot = &best
	}

	if average, found := AverageRating(shots, bean.ID); found {
		summary.AverageRating = &average
	}

	return summary
}
