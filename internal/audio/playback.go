package audio

import (
	"fmt"
	"os"
	"sync"

	"github.com/anandvisw/pharmscribe-go/internal/models"
)

// Source is a single-use playable wrapper around one buffer. Start may only
// be called once; Stop cancels playback and releases the source.
type Source interface {
	Start() error
	Stop()
}

// Device abstracts the platform audio output. done must be invoked exactly
// once when playback finishes naturally; it is not invoked after Stop.
type Device interface {
	NewSource(buf *Buffer, done func()) (Source, error)
}

// Player owns at most one active playback session. Starting a new session
// stops the previous one before the new source starts; two voices never
// overlap.
type Player struct {
	device Device

	mu     sync.Mutex
	active Source
}

// NewPlayer creates a player on the given output device.
func NewPlayer(device Device) *Player {
	return &Player{device: device}
}

// Play stops any active session, then starts a fresh source for buf.
func (p *Player) Play(buf *Buffer) error {
	p.mu.Lock()
	prev := p.active
	p.active = nil
	p.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}

	var src Source
	var err error
	src, err = p.device.NewSource(buf, func() {
		// Natural end of playback: clear the active slot so callers can
		// immediately start the next session. A superseded source must
		// not clear its successor.
		p.mu.Lock()
		if p.active == src {
			p.active = nil
		}
		p.mu.Unlock()
	})
	if err != nil {
		return fmt.Errorf("%w: open playback source: %v", models.ErrDeviceAccess, err)
	}

	p.mu.Lock()
	p.active = src
	p.mu.Unlock()

	if err := src.Start(); err != nil {
		p.mu.Lock()
		if p.active == src {
			p.active = nil
		}
		p.mu.Unlock()
		return fmt.Errorf("%w: start playback: %v", models.ErrDeviceAccess, err)
	}
	return nil
}

// Stop cancels the active session, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	prev := p.active
	p.active = nil
	p.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}
}

// Playing reports whether a session is currently active.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active != nil
}

// FileDevice "plays" buffers by rendering them to a WAV file, for headless
// targets. Each source overwrites the same path.
type FileDevice struct {
	Path string
}

func (d *FileDevice) NewSource(buf *Buffer, done func()) (Source, error) {
	if buf == nil || len(buf.Channels) == 0 {
		return nil, fmt.Errorf("empty buffer")
	}
	return &fileSource{path: d.Path, buf: buf, done: done}, nil
}

type fileSource struct {
	path    string
	buf     *Buffer
	done    func()
	stopped bool
	mu      sync.Mutex
}

func (s *fileSource) Start() error {
	data, err := EncodeWAV(s.buf)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return err
	}
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if !stopped && s.done != nil {
		s.done()
	}
	return nil
}

func (s *fileSource) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}
