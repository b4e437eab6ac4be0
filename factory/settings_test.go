package factory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/resource-planner/generic"
)

func TestParseSettings_Defaults(t *testing.T) {
	f := NewSettingsFactory()

	s, err := f.ParseSettings(`{}`)
	require.NoError(t, err)
	assert.True(t, s.WeeklyHours.Equal(generic.HoursFromInt(40)))
	assert.Equal(t, generic.ModePercentage, s.DisplayMode)
	assert.Equal(t, generic.DefaultThresholds(), s.Thresholds)
}

func TestParseSettings_Full(t *testing.T) {
	f := NewSettingsFactory()
	s, err := f.ParseSettings(`{
		"weekly_hours": 37.5,
		"display_mode": "hours",
		"thresholds": {"over_allocated": 1.1, "at_capacity": 0.9, "available": 0.3}
	}`)
	require.NoError(t, err)

	assert.True(t, s.WeeklyHours.Equal(generic.NewHours(37.5)))
	assert.Equal(t, generic.ModeHours, s.DisplayMode)
	assert.Equal(t, "1.1", s.Thresholds.OverAllocated.String())
	assert.Equal(t, "0.9", s.Thresholds.AtCapacity.String())
	assert.Equal(t, "0.3", s.Thresholds.Available.String())
}

func TestParseSettings_PartialThresholdsKeepBase(t *testing.T) {
	f := NewSettingsFactory()
	s, err := f.ParseSettings(`{"thresholds": {"at_capacity": 0.85}}`)
	require.NoError(t, err)

	assert.Equal(t, "0.85", s.Thresholds.AtCapacity.String())
	assert.Equal(t, "1", s.Thresholds.OverAllocated.String())
	assert.Equal(t, "0.2", s.Thresholds.Available.String())
}

func TestParseSettings_BaseIsRespected(t *testing.T) {
	base := generic.DefaultSettings()
	base.WeeklyHours = generic.NewHours(32)
	base.DisplayMode = generic.ModeHours
	f := &SettingsFactory{Base: base}

	s, err := f.ParseSettings(`{"display_mode": "percentage"}`)
	require.NoError(t, err)
	assert.True(t, s.WeeklyHours.Equal(generic.NewHours(32)))
	assert.Equal(t, generic.ModePercentage, s.DisplayMode)
}

func TestParseSettings_Invalid(t *testing.T) {
	f := NewSettingsFactory()
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"malformed", `{"weekly_hours": `, generic.ErrInvalidSettings},
		{"zero week", `{"weekly_hours": 0}`, generic.ErrInvalidSettings},
		{"negative week", `{"weekly_hours": -5}`, generic.ErrInvalidSettings},
		{"unknown mode", `{"display_mode": "days"}`, generic.ErrInvalidSettings},
		{"thresholds out of order", `{"thresholds": {"available": 0.9}}`, generic.ErrInvalidThresholds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ParseSettings(tt.doc)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, generic.IsClientError(err))
		})
	}
}

func TestParseSettingsYAML(t *testing.T) {
	f := NewSettingsFactory()
	s, err := f.ParseSettingsYAML([]byte("weekly_hours: 36\ndisplay_mode: hours\nthresholds:\n  at_capacity: 0.75\n"))
	require.NoError(t, err)

	assert.True(t, s.WeeklyHours.Equal(generic.HoursFromInt(36)))
	assert.Equal(t, generic.ModeHours, s.DisplayMode)
	assert.Equal(t, "0.75", s.Thresholds.AtCapacity.String())

	_, err = f.ParseSettingsYAML([]byte("weekly_hours: [1, 2"))
	assert.ErrorIs(t, err, generic.ErrInvalidSettings)
}

func TestLoadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weekly_hours: 37.5\n"), 0o644))

	s, err := NewSettingsFactory().LoadSettingsFile(path)
	require.NoError(t, err)
	assert.True(t, s.WeeklyHours.Equal(generic.NewHours(37.5)))

	_, err = NewSettingsFactory().LoadSettingsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestToJSON_RoundTrip(t *testing.T) {
	f := NewSettingsFactory()
	original, err := f.ParseSettings(`{"weekly_hours": 37.5, "display_mode": "hours", "thresholds": {"at_capacity": 0.9}}`)
	require.NoError(t, err)

	again, err := f.FromJSON(ToJSON(original))
	require.NoError(t, err)
	assert.True(t, again.WeeklyHours.Equal(original.WeeklyHours))
	assert.Equal(t, original.DisplayMode, again.DisplayMode)
	assert.True(t, again.Thresholds.AtCapacity.Equal(original.Thresholds.AtCapacity))
}
