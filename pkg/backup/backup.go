package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"droscher.com/Portafilter/pkg/model"
)

var ErrInvalidBackup = errors.New("invalid backup document")

// Export renders the whole log as an indented JSON document.
func Export(snapshot model.Snapshot) ([]byte, error) {
	if snapshot.Beans == nil {
		snapshot.Beans = []model.Bean{}
	}

	if snapshot.Shots == nil {
		snapshot.Shots = []model.Shot{}
	}

	return json.MarshalIndent(snapshot, "", "  ")
}

func Filename(product string, date time.Time) string {
	return fmt.Sprintf("%s-backup-%s.json", product, date.Format(time.DateOnly))
}

// Decode parses a backup document. Only the presence of the beans and shots
// collections is checked; unknown fields are ignored and missing record
// fields are left empty.
func Decode(document []byte, logger *zap.Logger) (model.Snapshot, error) {
	var top map[string]json.RawMessage

	if err := json.Unmarshal(document, &top); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}

	for _, key := range []string{"beans", "shots"} {
		if _, found := top[key]; !found {
			return model.Snapshot{}, fmt.Errorf("%w: missing %q", ErrInvalidBackup, key)
		}
	}

	var snapshot model.Snapshot

	if err := json.Unmarshal(top["beans"], &snapshot.Beans); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: beans: %w", ErrInvalidBackup, err)
	}

	if err := json.Unmarshal(top["shots"], &snapshot.Shots); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: shots: %w", ErrInvalidBackup, err)
	}

	if cleared := snapshot.Sanitize(logger); cleared > 0 {
		logger.Warn("backup contained unknown values", zap.Int("cleared", cleared))
	}

	return snapshot, nil
}
