// Package attachment converts user-supplied files and recorded audio into
// transport-safe payloads for the generative service.
package attachment

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anandvisw/pharmscribe-go/internal/models"
)

// MaxDecodedSize is the largest attachment accepted, measured on the decoded
// bytes. Inline request payloads above this are rejected before dispatch.
const MaxDecodedSize = 20 << 20 // 20 MiB

// Modality is the kind of primary input behind an analysis call.
type Modality string

const (
	ModalityText     Modality = "text"
	ModalityImage    Modality = "image"
	ModalityAudio    Modality = "audio"
	ModalityDocument Modality = "document"
)

// acceptedMIMETypes is the allowlist of attachment types. Anything else is
// ErrInvalidInput.
var acceptedMIMETypes = map[string]Modality{
	"image/png":       ModalityImage,
	"image/jpeg":      ModalityImage,
	"image/webp":      ModalityImage,
	"audio/wav":       ModalityAudio,
	"audio/x-wav":     ModalityAudio,
	"audio/webm":      ModalityAudio,
	"audio/ogg":       ModalityAudio,
	"audio/mpeg":      ModalityAudio,
	"audio/mp4":       ModalityAudio,
	"application/pdf": ModalityDocument,
}

var extensionMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".wav":  "audio/wav",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".pdf":  "application/pdf",
}

// Attachment is an ephemeral inline payload: base64 data plus MIME type. It
// is owned by the request that carries it and never persisted.
type Attachment struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
}

// FromBytes encodes raw bytes as an attachment, validating type and size.
func FromBytes(data []byte, mimeType string) (*Attachment, error) {
	if _, ok := acceptedMIMETypes[mimeType]; !ok {
		return nil, fmt.Errorf("%w: unsupported attachment type %q", models.ErrInvalidInput, mimeType)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty attachment", models.ErrInvalidInput)
	}
	if len(data) > MaxDecodedSize {
		return nil, fmt.Errorf("%w: attachment of %d bytes exceeds %d byte limit",
			models.ErrInvalidInput, len(data), MaxDecodedSize)
	}
	return &Attachment{
		Data:     base64.StdEncoding.EncodeToString(data),
		MIMEType: mimeType,
	}, nil
}

// FromBase64 validates an already-encoded payload, as received over the wire.
func FromBase64(data, mimeType string) (*Attachment, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: attachment is not valid base64: %v", models.ErrInvalidInput, err)
	}
	return FromBytes(raw, mimeType)
}

// FromFile reads a file and encodes it, inferring the MIME type from the
// extension.
func FromFile(path string) (*Attachment, error) {
	mimeType, ok := extensionMIMETypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized file extension %q", models.ErrInvalidInput, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	return FromBytes(data, mimeType)
}

// Bytes decodes the payload back to raw bytes.
func (a *Attachment) Bytes() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, fmt.Errorf("decode attachment: %w", err)
	}
	return raw, nil
}

// Modality reports which analysis modality the attachment implies. A nil
// attachment means plain text.
func (a *Attachment) Modality() Modality {
	if a == nil {
		return ModalityText
	}
	if m, ok := acceptedMIMETypes[a.MIMEType]; ok {
		return m
	}
	// Fall back on the major type for anything that slipped past
	// validation (e.g. a codec-suffixed audio MIME type).
	switch {
	case strings.HasPrefix(a.MIMEType, "image/"):
		return ModalityImage
	case strings.HasPrefix(a.MIMEType, "audio/"):
		return ModalityAudio
	default:
		return ModalityDocument
	}
}
