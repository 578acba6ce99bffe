package backup_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"
	"go.uber.org/zap/zaptest"

	"droscher.com/Portafilter/pkg/backup"
	"droscher.com/Portafilter/pkg/model"
)

func sample() model.Snapshot {
	created := time.Date(2024, 2, 10, 9, 30, 0, 123456789, time.UTC)

	return model.Snapshot{
		Beans: []model.Bean{
			{
				ID:           "b2",
				Roaster:      "Sey",
				Name:         "Kamwangi",
				OriginType:   model.SingleOrigin,
				RoastType:    model.Omni,
				TastingNotes: "blackcurrant, hibiscus",
				Image:        pointy.String("data:image/jpeg;base64,AAAA"),
				CreatedAt:    created.Add(time.Hour),
			},
			{ID: "b1", Roaster: "Heart", Name: "Stereo", OriginType: model.Blend, RoastType: model.Medium, CreatedAt: created},
		},
		Shots: []model.Shot{
			{ID: "s2", BeanID: "b2", Timestamp: created.Add(2 * time.Hour), Dose: 18, Yield: 40.5, Time: 29, GrindSetting: "2.1", Rating: 8.5, IsOptimal: true},
			{ID: "s1", BeanID: "b1", Timestamp: created.Add(90 * time.Minute), Dose: 18.2, Yield: 36, Time: 31.5, Rating: 6, Notes: "sour"},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	original := sample()

	document, err := backup.Export(original)
	require.NoError(t, err)

	restored, err := backup.Decode(document, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, original, restored)
}

func TestRoundTrip_Empty(t *testing.T) {
	document, err := backup.Export(model.Snapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"beans":[],"shots":[]}`, string(document))

	restored, err := backup.Decode(document, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Empty(t, restored.Beans)
	assert.Empty(t, restored.Shots)
}

func TestExport_IsIndented(t *testing.T) {
	document, err := backup.Export(sample())

	require.NoError(t, err)
	assert.Contains(t, string(document), "\n  \"beans\": [\n")
}

func TestFilename(t *testing.T) {
	date := time.Date(2024, 7, 4, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "portafilter-backup-2024-07-04.json", backup.Filename("portafilter", date))
}

func TestDecode_RejectsMissingShots(t *testing.T) {
	_, err := backup.Decode([]byte(`{"beans":[]}`), zaptest.NewLogger(t))

	require.ErrorIs(t, err, backup.ErrInvalidBackup)
	assert.ErrorContains(t, err, `missing "shots"`)
}

func TestDecode_RejectsUnparseableDocument(t *testing.T) {
	_, err := backup.Decode([]byte(`{"beans": [`), zaptest.NewLogger(t))

	require.ErrorIs(t, err, backup.ErrInvalidBackup)
}

func TestDecode_RejectsWrongShape(t *testing.T) {
	_, err := backup.Decode([]byte(`{"beans": {}, "shots": []}`), zaptest.NewLogger(t))

	require.ErrorIs(t, err, backup.ErrInvalidBackup)
}

func TestDecode_ToleratesExtraAndMissingFields(t *testing.T) {
	document := `{
		"version": 3,
		"beans": [{"id": "a", "name": "Stereo", "roastType": "Light", "farm": "unknown"}],
		"shots": [{"id": "s", "beanId": "orphan", "rating": 7}]
	}`

	snapshot, err := backup.Decode([]byte(document), zaptest.NewLogger(t))

	require.NoError(t, err)
	require.Len(t, snapshot.Beans, 1)
	assert.Equal(t, "Stereo", snapshot.Beans[0].Name)
	assert.Empty(t, snapshot.Beans[0].Roaster)
	assert.Equal(t, model.RoastType(""), snapshot.Beans[0].RoastType)
	require.Len(t, snapshot.Shots, 1)
	assert.Equal(t, "orphan", snapshot.Shots[0].BeanID)
}
