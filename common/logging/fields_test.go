package logging

import (
	"errors"
	"log/slog"
	"testing"
)

func TestFieldHelpers(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		wantKey  string
		wantText string
	}{
		{"service", Service("worker"), FieldService, "worker"},
		{"camera id", CameraID("cam-3"), FieldCameraID, "cam-3"},
		{"task", Task("helmet"), FieldTask, "helmet"},
		{"status", Status("no_vest"), FieldStatus, "no_vest"},
		{"image", Image("snap_001.jpg"), FieldImage, "snap_001.jpg"},
		{"device", Device("cuda"), FieldDevice, "cuda"},
		{"cursor", Cursor("1700000000-0"), FieldCursor, "1700000000-0"},
		{"subscriber", Subscriber("sub-1"), FieldSubscriber, "sub-1"},
		{"error", Error(errors.New("boom")), FieldError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if got := tt.attr.Value.String(); got != tt.wantText {
				t.Errorf("value = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestIntFields(t *testing.T) {
	if attr := TrackID(17); attr.Value.Int64() != 17 {
		t.Errorf("TrackID value = %d, want 17", attr.Value.Int64())
	}
	if attr := Duration(250); attr.Value.Int64() != 250 {
		t.Errorf("Duration value = %d, want 250", attr.Value.Int64())
	}
}
