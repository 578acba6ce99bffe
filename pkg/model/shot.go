package model

import "time"

type Shot struct {
	ID           string    `json:"id"`
	BeanID       string    `json:"beanId"`
	Timestamp    time.Time `json:"timestamp"`
	Dose         float64   `json:"dose"`
	Yield        float64   `json:"yield"`
	Time         float64   `json:"time"`
	GrindSetting string    `json:"grindSetting"`
	Rating       float64   `json:"rating"`
	Notes        string    `json:"notes"`
	IsOptimal    bool      `json:"isOptimal"`
}

// Ratio is the brew ratio, yield over dose.
func (s Shot) Ratio() float64 {
	if s.Dose == 0 {
		return 0
	}

	return s.Yield / s.Dose
}

// Apply replaces the recorded extraction values. Identity, bean reference,
// timestamp and the optimal flag are kept.
func (s *Shot) Apply(input ShotInput) {
	s.Dose = input.Dose
	s.Yield = input.Yield
	s.Time = input.Time
	s.GrindSetting = input.GrindSetting
	s.Rating = input.Rating
	s.Notes = input.Notes
}
