package logging

import "log/slog"

// Common field names for consistent logging across services.
const (
	FieldService    = "service"
	FieldCameraID   = "camera_id"
	FieldTrackID    = "track_id"
	FieldTask       = "task"
	FieldStatus     = "status"
	FieldImage      = "image"
	FieldDevice     = "device"
	FieldCursor     = "cursor"
	FieldSubscriber = "subscriber_id"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// CameraID returns a slog attribute for the originating camera.
func CameraID(id string) slog.Attr {
	return slog.String(FieldCameraID, id)
}

// TrackID returns a slog attribute for the tracked person/object.
func TrackID(id int64) slog.Attr {
	return slog.Int64(FieldTrackID, id)
}

// Task returns a slog attribute for a compliance task name.
func Task(name string) slog.Attr {
	return slog.String(FieldTask, name)
}

// Status returns a slog attribute for a result status.
func Status(status string) slog.Attr {
	return slog.String(FieldStatus, status)
}

// Image returns a slog attribute for an image reference.
func Image(ref string) slog.Attr {
	return slog.String(FieldImage, ref)
}

// Device returns a slog attribute for the inference device.
func Device(dev string) slog.Attr {
	return slog.String(FieldDevice, dev)
}

// Cursor returns a slog attribute for a stream cursor.
func Cursor(id string) slog.Attr {
	return slog.String(FieldCursor, id)
}

// Subscriber returns a slog attribute for a relay subscriber ID.
func Subscriber(id string) slog.Attr {
	return slog.String(FieldSubscriber, id)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
