package scanner

import (
	"errors"
	"image"
)

// FacingMode selects which device camera to acquire.
type FacingMode string

const (
	FacingUser        FacingMode = "user"
	FacingEnvironment FacingMode = "environment"
)

// ErrCameraUnavailable is returned when no camera can be acquired, either
// because permission was denied or no device exists. It is terminal: the
// pipeline reports it and does not retry.
var ErrCameraUnavailable = errors.New("camera unavailable")

// ErrStreamEnded is returned by a Stream that has no more frames to give.
var ErrStreamEnded = errors.New("camera stream ended")

// Stream is an acquired camera resource. Frame returns the most recent
// captured frame; older frames are never replayed.
type Stream interface {
	Frame() (image.Image, error)
	Close() error
}

// Camera is the capture collaborator. The pipeline treats the returned
// Stream as an opaque scoped resource and closes it on every exit path.
type Camera interface {
	Acquire(facing FacingMode) (Stream, error)
}
