package model

import (
	"errors"

	"go.uber.org/zap"
)

var ErrUnknownValue = errors.New("unknown enumeration value")

// Snapshot is the whole log: the persisted document and the backup format.
type Snapshot struct {
	Beans []Bean `json:"beans"`
	Shots []Shot `json:"shots"`
}

func (s Snapshot) Empty() bool {
	return len(s.Beans) == 0 && len(s.Shots) == 0
}

func (s Snapshot) Clone() Snapshot {
	clone := Snapshot{
		Beans: make([]Bean, 0, len(s.Beans)),
		Shots: make([]Shot, 0, len(s.Shots)),
	}

	for _, bean := range s.Beans {
		clone.Beans = append(clone.Beans, bean.Clone())
	}

	clone.Shots = append(clone.Shots, s.Shots...)

	return clone
}

// Sanitize clears enumeration fields holding values outside the known sets.
// The records are kept; every cleared value is logged.
func (s *Snapshot) Sanitize(logger *zap.Logger) int {
	cleared := 0

	for index := range s.Beans {
		bean := &s.Beans[index]

		if bean.OriginType != "" && !bean.OriginType.Valid() {
			logger.Warn("ignoring unknown origin type", zap.String("bean_id", bean.ID), zap.String("value", string(bean.OriginType)))
			bean.OriginType = ""
			cleared++
		}

		if bean.RoastType != "" && !bean.RoastType.Valid() {
			logger.Warn("ignoring unknown roast type", zap.String("bean_id", bean.ID), zap.String("value", string(bean.RoastType)))
			bean.RoastType = ""
			cleared++
		}
	}

	if s.Beans == nil {
		s.Beans = []Bean{}
	}

	if s.Shots == nil {
		s.Shots = []Shot{}
	}

	return cleared
}
