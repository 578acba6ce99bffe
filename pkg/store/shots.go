package store

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"droscher.com/Portafilter/pkg/confirm"
	"droscher.com/Portafilter/pkg/model"
	"droscher.com/Portafilter/pkg/view"
)

// AddShot does not check that the bean exists; shots are only logged from a
// bean's page. Callers taking external input use BeanExists first.
func (s *Store) AddShot(ctx context.Context, input model.ShotInput) (*model.Shot, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}

	previous := s.data.Clone()

	shot := model.Shot{ID: s.newID(), BeanID: input.BeanID, Timestamp: s.now().UTC()}
	shot.Apply(input)

	s.data.Shots = append([]model.Shot{shot}, s.data.Shots...)

	if err := s.commit(ctx, previous, false); err != nil {
		return nil, err
	}

	s.logger.Info("added shot", zap.String("shot_id", shot.ID), zap.String("bean_id", shot.BeanID), zap.Float64("rating", shot.Rating))

	return &shot, nil
}

// UpdateShot returns nil without error when no shot has the id.
func (s *Store) UpdateShot(ctx context.Context, id string, input model.ShotInput) (*model.Shot, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}

	previous := s.data.Clone()

	index := s.shotIndex(id)
	if index < 0 {
		s.logger.Debug("ignoring update of unknown shot", zap.String("shot_id", id))

		return nil, nil
	}

	s.data.Shots[index].Apply(input)

	if err := s.commit(ctx, previous, false); err != nil {
		return nil, err
	}

	shot := s.data.Shots[index]

	return &shot, nil
}

func (s *Store) DeleteShot(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	previous := s.data.Clone()

	index := s.shotIndex(id)
	if index < 0 {
		return nil
	}

	s.data.Shots = slices.Delete(slices.Clone(s.data.Shots), index, index+1)

	if err := s.commit(ctx, previous, true); err != nil {
		return err
	}

	s.logger.Info("deleted shot", zap.String("shot_id", id))

	return nil
}

func (s *Store) RequestDeleteShot(id string) (confirm.Request, error) {
	s.mu.Lock()
	index := s.shotIndex(id)

	if index < 0 {
		s.mu.Unlock()

		return confirm.Request{}, ErrShotNotFound
	}

	shot := s.data.Shots[index]
	s.mu.Unlock()

	message := fmt.Sprintf("Delete the %.1fg → %.1fg shot rated %.1f?", shot.Dose, shot.Yield, shot.Rating)

	return s.confirmations.Request(confirm.DeleteShot, id, message, func(ctx context.Context) error {
		return s.DeleteShot(ctx, id)
	}), nil
}

// ToggleOptimal flips the optimal flag of the shot and clears it on every
// other shot of the same bean. Siblings are found through the shot's own
// bean; a beanID that disagrees with it is ignored.
func (s *Store) ToggleOptimal(ctx context.Context, shotID string, beanID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	target := s.shotIndex(shotID)
	if target < 0 {
		return ErrShotNotFound
	}

	owner := s.data.Shots[target].BeanID
	if beanID != owner {
		s.logger.Debug("ignoring bean that does not own the shot", zap.String("shot_id", shotID), zap.String("bean_id", beanID), zap.String("owner", owner))
	}

	previous := s.data.Clone()

	for index := range s.data.Shots {
		shot := &s.data.Shots[index]

		switch {
		case index == target:
			shot.IsOptimal = !shot.IsOptimal
		case shot.BeanID == owner:
			shot.IsOptimal = false
		}
	}

	return s.commit(ctx, previous, false)
}

func (s *Store) Shots() []model.Shot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.data.Shots)
}

func (s *Store) Shot(id string) (model.Shot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.shotIndex(id)
	if index < 0 {
		return model.Shot{}, false
	}

	return s.data.Shots[index], true
}

func (s *Store) BeanExists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.beanIndex(id) >= 0
}

func (s *Store) ShotsForBean(beanID string) []model.Shot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return view.ShotsForBean(s.data.Shots, beanID)
}

func (s *Store) BestShot(beanID string) (model.Shot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return view.BestShot(s.data.Shots, beanID)
}

func (s *Store) AverageRating(beanID string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return view.AverageRating(s.data.Shots, beanID)
}

func (s *Store) SortedShots(beanID string, mode view.SortMode) []model.Shot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return view.SortedShots(s.data.Shots, beanID, mode)
}

func (s *Store) Stats(beanID string) view.BeanStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return view.StatsForBean(s.data.Shots, beanID)
}

func (s *Store) shotIndex(id string) int {
	for index, shot := range s.data.Shots {
		if shot.ID == id {
			return index
		}
	}

	return -1
}
