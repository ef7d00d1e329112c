package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectionEvent_ResolveTasks(t *testing.T) {
	defaults := []string{"helmet", "vest"}

	tests := []struct {
		name     string
		event    DetectionEvent
		expected []string
	}{
		{
			name:     "event tasks take precedence",
			event:    DetectionEvent{Tasks: []string{"goggles"}},
			expected: []string{"goggles"},
		},
		{
			name:     "nil tasks fall back to defaults",
			event:    DetectionEvent{},
			expected: defaults,
		},
		{
			name:     "empty tasks fall back to defaults",
			event:    DetectionEvent{Tasks: []string{}},
			expected: defaults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.ResolveTasks(defaults))
		})
	}
}

func TestDetectionEvent_WireFormat(t *testing.T) {
	raw := `{"timestamp":1700000001,"camera_id":"cam-2","track_id":7,"image_reference":"snaps/p7.jpg","tasks":["helmet"]}`

	var ev DetectionEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	assert.Equal(t, int64(1700000001), ev.Timestamp)
	assert.Equal(t, "cam-2", ev.CameraID)
	assert.Equal(t, int64(7), ev.TrackID)
	assert.Equal(t, "snaps/p7.jpg", ev.ImageReference)
	assert.Equal(t, []string{"helmet"}, ev.Tasks)
}

func TestViolationHelpers(t *testing.T) {
	assert.Equal(t, "no_helmet", ViolationStatus("helmet"))
	assert.Equal(t, "no_helmet_count", CounterKey("no_helmet"))
}

func TestImageBasename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"snap_001.jpg", "snap_001.jpg"},
		{"snaps/snap_001.jpg", "snap_001.jpg"},
		{"../../etc/passwd", "passwd"},
		{"/abs/path/p.png", "p.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ImageBasename(tt.in))
	}
}
