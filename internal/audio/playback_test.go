package audio

import (
	"os"
	"path/filepath"
	"testing"
)

// fakeDevice records start/stop order across every source it creates.
type fakeDevice struct {
	events  []string
	sources int
}

func (d *fakeDevice) NewSource(buf *Buffer, done func()) (Source, error) {
	d.sources++
	return &fakeSource{id: d.sources, device: d, done: done}, nil
}

type fakeSource struct {
	id     int
	device *fakeDevice
	done   func()
}

func (s *fakeSource) Start() error {
	s.device.events = append(s.device.events, event("start", s.id))
	return nil
}

func (s *fakeSource) Stop() {
	s.device.events = append(s.device.events, event("stop", s.id))
}

func event(kind string, id int) string {
	return kind + string(rune('0'+id))
}

func testBuffer() *Buffer {
	return &Buffer{Channels: [][]float32{{0, 0.5, -0.5}}, SampleRate: DefaultSampleRate}
}

func TestPlayer_SingleActivePlayback(t *testing.T) {
	device := &fakeDevice{}
	player := NewPlayer(device)

	if err := player.Play(testBuffer()); err != nil {
		t.Fatalf("first Play() error = %v", err)
	}
	if err := player.Play(testBuffer()); err != nil {
		t.Fatalf("second Play() error = %v", err)
	}

	// The first source must be stopped before the second starts.
	want := []string{"start1", "stop1", "start2"}
	if len(device.events) != len(want) {
		t.Fatalf("events = %v, want %v", device.events, want)
	}
	for i := range want {
		if device.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", device.events, want)
		}
	}
	if !player.Playing() {
		t.Error("Playing() = false while second session is active")
	}
}

func TestPlayer_StopClearsActive(t *testing.T) {
	device := &fakeDevice{}
	player := NewPlayer(device)

	if err := player.Play(testBuffer()); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	player.Stop()

	if player.Playing() {
		t.Error("Playing() = true after Stop()")
	}
	// Stopping again is a no-op.
	player.Stop()
	if got := device.events[len(device.events)-1]; got != "stop1" {
		t.Errorf("last event = %q, want stop1", got)
	}
}

func TestPlayer_NaturalEndClearsActive(t *testing.T) {
	device := &fakeDevice{}
	player := NewPlayer(device)

	if err := player.Play(testBuffer()); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	// Simulate natural end of playback.
	lastSource := playerActive(t, player)
	lastSource.(*fakeSource).done()

	if player.Playing() {
		t.Error("Playing() = true after natural end of playback")
	}
	if err := player.Play(testBuffer()); err != nil {
		t.Errorf("Play() after natural end error = %v", err)
	}
}

func playerActive(t *testing.T, p *Player) Source {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		t.Fatal("no active source")
	}
	return p.active
}

func TestFileDevice_WritesWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	player := NewPlayer(&FileDevice{Path: path})

	if err := player.Play(testBuffer()); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read rendered file: %v", err)
	}
	if len(data) < 44 || string(data[:4]) != "RIFF" {
		t.Errorf("rendered file is not a WAV (%d bytes)", len(data))
	}
	// File playback completes synchronously, so the slot is free again.
	if player.Playing() {
		t.Error("Playing() = true after synchronous file playback")
	}
}
