// Package scanner turns a live camera feed into a validated token id on the
// payer's device, with no server round trip until a candidate is found.
//
// The pipeline is a cooperative state machine: each Tick samples the current
// frame, attempts one decode, and returns. Decode attempts never overlap and
// a frame that fails to decode, or decodes to a foreign payload, causes no
// transition at all.
package scanner

import (
	"context"
	"errors"

	"pagcore/internal/token"
)

// State is the pipeline's lifecycle state.
type State string

const (
	StateIdle     State = "idle"
	StateScanning State = "scanning"
	StateFound    State = "found"
	StateError    State = "error"
)

// ErrAlreadyScanning is returned by Start while a scan is in progress; a
// second camera acquisition is never made silently.
var ErrAlreadyScanning = errors.New("scan already in progress")

// Pipeline drives the scan. It is single-threaded: the owner calls Start,
// then Tick once per presented frame, and Cancel or Close on teardown.
type Pipeline struct {
	camera  Camera
	decoder FrameDecoder
	facing  FacingMode

	state  State
	stream Stream
	result string
	err    error
}

// NewPipeline creates a pipeline over the given capture collaborator and
// frame decoder.
func NewPipeline(camera Camera, decoder FrameDecoder) *Pipeline {
	if camera == nil {
		panic("camera is required")
	}
	if decoder == nil {
		panic("decoder is required")
	}
	return &Pipeline{
		camera:  camera,
		decoder: decoder,
		facing:  FacingEnvironment,
		state:   StateIdle,
	}
}

// State returns the current pipeline state.
func (p *Pipeline) State() State { return p.state }

// Result returns the found token id, valid only in StateFound.
func (p *Pipeline) Result() (string, bool) {
	return p.result, p.state == StateFound
}

// Err returns the terminal error, set only in StateError.
func (p *Pipeline) Err() error { return p.err }

// Start acquires the camera and moves Idle -> Scanning. Starting an
// already-scanning pipeline is an explicit error, and a finished pipeline
// can be started again.
func (p *Pipeline) Start(ctx context.Context) error {
	if p.state == StateScanning {
		return ErrAlreadyScanning
	}

	stream, err := p.camera.Acquire(p.facing)
	if err != nil {
		p.state = StateError
		p.err = ErrCameraUnavailable
		return ErrCameraUnavailable
	}

	p.stream = stream
	p.state = StateScanning
	p.result = ""
	p.err = nil
	return nil
}

// Tick performs one unit of scan work: sample the current frame, attempt a
// decode, validate the namespace. It returns true when a token was found.
// Decode misses and foreign payloads leave the pipeline Scanning.
func (p *Pipeline) Tick(ctx context.Context) (bool, error) {
	if p.state != StateScanning {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		p.release()
		p.state = StateIdle
		return false, err
	}

	frame, err := p.stream.Frame()
	if err != nil {
		p.release()
		p.state = StateError
		p.err = err
		return false, err
	}

	payload, err := p.decoder.DecodeFrame(frame)
	if err != nil {
		// Nothing decodable in this frame; keep scanning.
		return false, nil
	}

	id, err := token.Decode(payload)
	if err != nil {
		// A wrong or unrelated QR code is ignored, not an error.
		return false, nil
	}

	p.release()
	p.state = StateFound
	p.result = id
	return true, nil
}

// Cancel releases the camera and returns to Idle. Valid from Scanning;
// a no-op otherwise.
func (p *Pipeline) Cancel() {
	if p.state != StateScanning {
		return
	}
	p.release()
	p.state = StateIdle
}

// Run drives the pipeline until a token is found, the stream fails, or ctx
// is cancelled. The camera is released on every return path.
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	if err := p.Start(ctx); err != nil {
		return "", err
	}
	for {
		found, err := p.Tick(ctx)
		if err != nil {
			return "", err
		}
		if found {
			return p.result, nil
		}
	}
}

func (p *Pipeline) release() {
	if p.stream != nil {
		_ = p.stream.Close()
		p.stream = nil
	}
}
