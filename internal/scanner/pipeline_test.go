package scanner

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"pagcore/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCamera hands out trackable streams.
type fakeCamera struct {
	fail    bool
	streams []*fakeStream
}

func (c *fakeCamera) Acquire(_ FacingMode) (Stream, error) {
	if c.fail {
		return nil, ErrCameraUnavailable
	}
	s := &fakeStream{}
	c.streams = append(c.streams, s)
	return s, nil
}

type fakeStream struct {
	closed bool
}

func (s *fakeStream) Frame() (image.Image, error) {
	return image.NewGray(image.Rect(0, 0, 8, 8)), nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

// scriptDecoder returns its payloads in order, ErrNoCode once exhausted.
type scriptDecoder struct {
	payloads []string
	calls    int
}

func (d *scriptDecoder) DecodeFrame(_ image.Image) (string, error) {
	d.calls++
	if len(d.payloads) == 0 {
		return "", ErrNoCode
	}
	p := d.payloads[0]
	d.payloads = d.payloads[1:]
	if p == "" {
		return "", ErrNoCode
	}
	return p, nil
}

func TestPipeline_FindsNamespacedCode(t *testing.T) {
	cam := &fakeCamera{}
	dec := &scriptDecoder{payloads: []string{"", "", token.Encode("3f8a9c0d1e2b")}}
	p := NewPipeline(cam, dec)

	require.NoError(t, p.Start(context.Background()))
	assert.Equal(t, StateScanning, p.State())

	// Two empty frames: still scanning, no transition.
	for i := 0; i < 2; i++ {
		found, err := p.Tick(context.Background())
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, StateScanning, p.State())
	}

	found, err := p.Tick(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, StateFound, p.State())

	id, ok := p.Result()
	assert.True(t, ok)
	assert.Equal(t, "3f8a9c0d1e2b", id)

	// Camera released on the Found transition.
	require.Len(t, cam.streams, 1)
	assert.True(t, cam.streams[0].closed)
}

func TestPipeline_ForeignNamespaceNeverTerminates(t *testing.T) {
	cam := &fakeCamera{}
	dec := &scriptDecoder{payloads: []string{
		"otherapp:3f8a9c0d1e2b",
		"https://example.com/menu",
		"WIFI:T:WPA;S:cafe;;",
	}}
	p := NewPipeline(cam, dec)

	require.NoError(t, p.Start(context.Background()))
	for i := 0; i < 3; i++ {
		found, err := p.Tick(context.Background())
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, StateScanning, p.State())
	}
	_, ok := p.Result()
	assert.False(t, ok)
}

func TestPipeline_CameraUnavailable(t *testing.T) {
	p := NewPipeline(&fakeCamera{fail: true}, &scriptDecoder{})

	err := p.Start(context.Background())
	assert.ErrorIs(t, err, ErrCameraUnavailable)
	assert.Equal(t, StateError, p.State())
	assert.ErrorIs(t, p.Err(), ErrCameraUnavailable)
}

func TestPipeline_StartWhileScanning(t *testing.T) {
	cam := &fakeCamera{}
	p := NewPipeline(cam, &scriptDecoder{})

	require.NoError(t, p.Start(context.Background()))
	assert.ErrorIs(t, p.Start(context.Background()), ErrAlreadyScanning)
	// No second acquisition happened.
	assert.Len(t, cam.streams, 1)
}

func TestPipeline_CancelReleasesCamera(t *testing.T) {
	cam := &fakeCamera{}
	p := NewPipeline(cam, &scriptDecoder{})

	require.NoError(t, p.Start(context.Background()))
	p.Cancel()

	assert.Equal(t, StateIdle, p.State())
	require.Len(t, cam.streams, 1)
	assert.True(t, cam.streams[0].closed)

	// Cancel out of Scanning is a no-op.
	p.Cancel()
	assert.Equal(t, StateIdle, p.State())

	// Restart after cancel acquires a fresh stream.
	require.NoError(t, p.Start(context.Background()))
	assert.Len(t, cam.streams, 2)
}

func TestPipeline_ContextCancelReleasesCamera(t *testing.T) {
	cam := &fakeCamera{}
	p := NewPipeline(cam, &scriptDecoder{})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Start(ctx))
	cancel()

	_, err := p.Tick(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateIdle, p.State())
	require.Len(t, cam.streams, 1)
	assert.True(t, cam.streams[0].closed)
}

func TestPipeline_StreamFailureIsTerminal(t *testing.T) {
	cam := &fakeCamera{}
	p := NewPipeline(cam, &scriptDecoder{})
	require.NoError(t, p.Start(context.Background()))

	cam.streams[0].closed = true
	// Swap in an ended stream to force a frame error.
	p.stream = &imageStream{closed: true}

	_, err := p.Tick(context.Background())
	assert.ErrorIs(t, err, ErrStreamEnded)
	assert.Equal(t, StateError, p.State())
}

// End to end: render a real QR PNG with the codec and decode it back through
// the real gozxing decoder.
func TestPipeline_DecodesRenderedQR(t *testing.T) {
	const id = "3f8a9c0d1e2b4a5c6d7e8f9a0b1c2d3e"

	pngBytes, err := token.Image(id, 256)
	require.NoError(t, err)
	frame, err := png.Decode(bytes.NewReader(pngBytes))
	require.NoError(t, err)

	p := NewPipeline(NewImageCamera(frame), NewDecoder())
	got, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestImageCamera(t *testing.T) {
	_, err := NewImageCamera().Acquire(FacingEnvironment)
	assert.ErrorIs(t, err, ErrCameraUnavailable)

	cam := NewImageCamera(image.NewGray(image.Rect(0, 0, 1, 1)))
	stream, err := cam.Acquire(FacingEnvironment)
	require.NoError(t, err)

	_, err = stream.Frame()
	require.NoError(t, err)
	_, err = stream.Frame()
	assert.ErrorIs(t, err, ErrStreamEnded)
}
