package scanner

import "image"

// ImageCamera is a Camera over a fixed sequence of still frames. It backs
// the scan CLI (frames loaded from files) and tests. The stream yields each
// frame once and then reports ErrStreamEnded.
type ImageCamera struct {
	frames []image.Image
}

func NewImageCamera(frames ...image.Image) *ImageCamera {
	return &ImageCamera{frames: frames}
}

func (c *ImageCamera) Acquire(_ FacingMode) (Stream, error) {
	if len(c.frames) == 0 {
		return nil, ErrCameraUnavailable
	}
	return &imageStream{frames: c.frames}, nil
}

type imageStream struct {
	frames []image.Image
	pos    int
	closed bool
}

func (s *imageStream) Frame() (image.Image, error) {
	if s.closed || s.pos >= len(s.frames) {
		return nil, ErrStreamEnded
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

func (s *imageStream) Close() error {
	s.closed = true
	return nil
}
