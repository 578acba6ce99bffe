package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"droscher.com/Portafilter/pkg/confirm"
	"droscher.com/Portafilter/pkg/model"
	"droscher.com/Portafilter/pkg/view"
)

func (s *Store) AddBean(ctx context.Context, input model.BeanInput) (*model.Bean, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}

	previous := s.data.Clone()

	bean := model.Bean{ID: s.newID(), CreatedAt: s.now().UTC()}
	bean.Apply(input)

	s.data.Beans = append([]model.Bean{bean}, s.data.Beans...)

	if err := s.commit(ctx, previous, false); err != nil {
		return nil, err
	}

	s.logger.Info("added bean", zap.String("bean_id", bean.ID), zap.String("roaster", bean.Roaster), zap.String("name", bean.Name))

	result := bean.Clone()

	return &result, nil
}

// UpdateBean returns nil without error when no bean has the id.
func (s *Store) UpdateBean(ctx context.Context, id string, input model.BeanInput) (*model.Bean, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}

	previous := s.data.Clone()

	index := s.beanIndex(id)
	if index < 0 {
		s.logger.Debug("ignoring update of unknown bean", zap.String("bean_id", id))

		return nil, nil
	}

	s.data.Beans[index].Apply(input)

	if err := s.commit(ctx, previous, false); err != nil {
		return nil, err
	}

	result := s.data.Beans[index].Clone()

	return &result, nil
}

// DeleteBean removes the bean together with all of its shots.
func (s *Store) DeleteBean(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	previous := s.data.Clone()

	index := s.beanIndex(id)
	if index < 0 {
		return nil
	}

	s.data.Beans = append(s.data.Beans[:index:index], s.data.Beans[index+1:]...)

	shots := make([]model.Shot, 0, len(s.data.Shots))
	removed := 0

	for _, shot := range s.data.Shots {
		if shot.BeanID == id {
			removed++

			continue
		}

		shots = append(shots, shot)
	}

	s.data.Shots = shots

	if err := s.commit(ctx, previous, true); err != nil {
		return err
	}

	s.logger.Info("deleted bean", zap.String("bean_id", id), zap.Int("shots_removed", removed))

	return nil
}

func (s *Store) RequestDeleteBean(id string) (confirm.Request, error) {
	s.mu.Lock()
	index := s.beanIndex(id)

	if index < 0 {
		s.mu.Unlock()

		return confirm.Request{}, ErrBeanNotFound
	}

	bean := s.data.Beans[index]
	shots := len(view.ShotsForBean(s.data.Shots, id))
	s.mu.Unlock()

	message := fmt.Sprintf("Delete %s %s and its %d shots?", bean.Roaster, bean.Name, shots)

	return s.confirmations.Request(confirm.DeleteBean, id, message, func(ctx context.Context) error {
		return s.DeleteBean(ctx, id)
	}), nil
}

func (s *Store) Beans() []model.Bean {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.Clone().Beans
}

func (s *Store) Bean(id string) (model.Bean, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.beanIndex(id)
	if index < 0 {
		return model.Bean{}, false
	}

	return s.data.Beans[index].Clone(), true
}

func (s *Store) beanIndex(id string) int {
	for index, bean := range s.data.Beans {
		if bean.ID == id {
			return index
		}
	}

	return -1
}
