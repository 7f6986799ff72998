package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anandvisw/pharmscribe-go/internal/attachment"
	"github.com/anandvisw/pharmscribe-go/internal/models"
)

// Stream is an open capture stream. Reads block until data arrives; Close
// releases the underlying device and unblocks any pending read.
type Stream interface {
	io.Reader
	MIMEType() string
	Close() error
}

// Microphone abstracts the platform capture device.
type Microphone interface {
	Open(ctx context.Context) (Stream, error)
}

// Recorder accumulates one capture stream into a single blob and hands it
// back as an audio attachment. At most one recording session is active per
// recorder.
type Recorder struct {
	mic Microphone

	mu     sync.Mutex
	stream Stream
	buf    bytes.Buffer
	copied chan error
}

// NewRecorder creates a recorder on the given microphone.
func NewRecorder(mic Microphone) *Recorder {
	return &Recorder{mic: mic}
}

// Start opens the microphone and begins accumulating audio. A failure to
// open the device is reported as ErrDeviceAccess and capture does not start.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream != nil {
		return fmt.Errorf("%w: recording already in progress", models.ErrInvalidInput)
	}

	stream, err := r.mic.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: open microphone: %v", models.ErrDeviceAccess, err)
	}

	r.stream = stream
	r.buf.Reset()
	r.copied = make(chan error, 1)
	go func() {
		_, err := io.Copy(&r.buf, stream)
		r.copied <- err
	}()
	return nil
}

// Recording reports whether a capture session is active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stream != nil
}

// Stop closes the device stream, waits for the accumulated blob, and encodes
// it as an attachment. The stream is released regardless of outcome.
func (r *Recorder) Stop() (*attachment.Attachment, error) {
	r.mu.Lock()
	stream := r.stream
	copied := r.copied
	r.mu.Unlock()
	if stream == nil {
		return nil, fmt.Errorf("%w: no recording in progress", models.ErrInvalidInput)
	}

	mimeType := stream.MIMEType()
	closeErr := stream.Close()
	copyErr := <-copied

	r.mu.Lock()
	r.stream = nil
	data := append([]byte(nil), r.buf.Bytes()...)
	r.mu.Unlock()

	// Closing mid-copy surfaces as fs.ErrClosed from file-backed streams;
	// that is a normal stop, not a device failure.
	if copyErr != nil && !errors.Is(copyErr, fs.ErrClosed) && !errors.Is(copyErr, io.ErrClosedPipe) {
		return nil, fmt.Errorf("%w: read microphone: %v", models.ErrDeviceAccess, copyErr)
	}
	if closeErr != nil && !errors.Is(closeErr, fs.ErrClosed) {
		return nil, fmt.Errorf("%w: release microphone: %v", models.ErrDeviceAccess, closeErr)
	}
	return attachment.FromBytes(data, mimeType)
}

// FileMicrophone replays a pre-recorded audio file as a capture stream, for
// headless targets and tests. The whole file is buffered at Open so the
// recording is complete no matter when Stop arrives.
type FileMicrophone struct {
	Path string
}

func (m *FileMicrophone) Open(ctx context.Context) (Stream, error) {
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return nil, err
	}
	mimeType := "audio/wav"
	switch strings.ToLower(filepath.Ext(m.Path)) {
	case ".webm":
		mimeType = "audio/webm"
	case ".ogg":
		mimeType = "audio/ogg"
	case ".mp3":
		mimeType = "audio/mpeg"
	case ".m4a":
		mimeType = "audio/mp4"
	}
	return &fileStream{reader: bytes.NewReader(data), mimeType: mimeType}, nil
}

type fileStream struct {
	mu       sync.Mutex
	reader   *bytes.Reader
	closed   bool
	mimeType string
}

// Read never blocks and keeps serving buffered data after Close: the file's
// whole content is the recording, regardless of when Stop arrives.
func (s *fileStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader.Read(p)
}

func (s *fileStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fileStream) MIMEType() string { return s.mimeType }
