package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"droscher.com/Portafilter/pkg/model"
)

func TestParseRoastType(t *testing.T) {
	roast, err := model.ParseRoastType("Omni")
	require.NoError(t, err)
	assert.Equal(t, model.Omni, roast)

	_, err = model.ParseRoastType("Light")
	require.ErrorIs(t, err, model.ErrUnknownValue)
}

func TestParseOriginType(t *testing.T) {
	origin, err := model.ParseOriginType("Single Origin")
	require.NoError(t, err)
	assert.Equal(t, model.SingleOrigin, origin)

	_, err = model.ParseOriginType("Estate")
	require.ErrorIs(t, err, model.ErrUnknownValue)
}

func TestBeanInputValidate(t *testing.T) {
	input := model.BeanInput{
		Roaster:    "  Heart  ",
		Name:       "Stereo",
		OriginType: "Blend",
		RoastType:  "Medium",
	}
	require.NoError(t, input.Validate())
	assert.Equal(t, "Heart", input.Roaster)

	invalid := model.BeanInput{Roaster: " ", Name: "Stereo", OriginType: "Blend", RoastType: "Light"}
	err := invalid.Validate()
	require.ErrorIs(t, err, model.ErrInvalidInput)
	assert.ErrorContains(t, err, "Roaster: required validation failed")
	assert.ErrorContains(t, err, "RoastType: roast_type validation failed")
}

func TestShotInputValidate(t *testing.T) {
	input := model.ShotInput{BeanID: "bean", Dose: 18, Yield: 36, Time: 28, Rating: 7.5}
	require.NoError(t, input.Validate())

	for name, shot := range map[string]model.ShotInput{
		"zero dose":    {BeanID: "bean", Dose: 0, Yield: 36, Time: 28, Rating: 7},
		"rating low":   {BeanID: "bean", Dose: 18, Yield: 36, Time: 28, Rating: 0.5},
		"rating high":  {BeanID: "bean", Dose: 18, Yield: 36, Time: 28, Rating: 11},
		"missing bean": {Dose: 18, Yield: 36, Time: 28, Rating: 7},
	} {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, shot.Validate(), model.ErrInvalidInput)
		})
	}
}

func TestShotRatio(t *testing.T) {
	assert.InDelta(t, 2.0, model.Shot{Dose: 18, Yield: 36}.Ratio(), 0.001)
	assert.Zero(t, model.Shot{Yield: 36}.Ratio())
}

func TestSnapshotSanitize(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	snapshot := model.Snapshot{
		Beans: []model.Bean{
			{ID: "a", OriginType: "Blend", RoastType: "Light"},
			{ID: "b", OriginType: "Estate", RoastType: "Dark"},
		},
	}

	cleared := snapshot.Sanitize(zap.New(core))

	assert.Equal(t, 2, cleared)
	assert.Equal(t, model.RoastType(""), snapshot.Beans[0].RoastType)
	assert.Equal(t, model.Blend, snapshot.Beans[0].OriginType)
	assert.Equal(t, model.OriginType(""), snapshot.Beans[1].OriginType)
	assert.Equal(t, model.Dark, snapshot.Beans[1].RoastType)
	assert.NotNil(t, snapshot.Shots)
	assert.Equal(t, 2, logs.Len())
}

func TestSanitizedBeanMustPickTypesAgain(t *testing.T) {
	snapshot := model.Snapshot{Beans: []model.Bean{{ID: "a", Roaster: "Heart", Name: "Stereo", OriginType: "Blend", RoastType: "Light"}}}
	snapshot.Sanitize(zap.NewNop())

	input := model.BeanInputFrom(snapshot.Beans[0])
	err := input.Validate()
	require.ErrorIs(t, err, model.ErrInvalidInput)
	assert.ErrorContains(t, err, "RoastType: required validation failed")

	input.RoastType = string(model.Omni)
	require.NoError(t, input.Validate())
}

func TestBeanInputFromCopiesImage(t *testing.T) {
	bean := model.Bean{ID: "a", Name: "Stereo", Image: pointy.String("data:1")}

	input := model.BeanInputFrom(bean)
	*input.Image = "data:2"

	assert.Equal(t, "data:1", *bean.Image)
	assert.Equal(t, "Stereo", input.Name)
}

func TestSnapshotCloneCopiesImages(t *testing.T) {
	snapshot := model.Snapshot{Beans: []model.Bean{{ID: "a", Image: pointy.String("data:1")}}}

	clone := snapshot.Clone()
	*clone.Beans[0].Image = "data:2"

	assert.Equal(t, "data:1", *snapshot.Beans[0].Image)
}
