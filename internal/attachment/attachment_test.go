package attachment

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/anandvisw/pharmscribe-go/internal/models"
)

func TestFromBytes_RoundTrip(t *testing.T) {
	data := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}

	att, err := FromBytes(data, "image/png")
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}

	if att.Data != base64.StdEncoding.EncodeToString(data) {
		t.Error("Data is not the base64 encoding of the input")
	}
	got, err := att.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("Bytes() does not round-trip")
	}
}

func TestFromBytes_Validation(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		mimeType string
	}{
		{"unsupported type", []byte("GIF89a"), "image/gif"},
		{"executable rejected", []byte{0x7f, 'E', 'L', 'F'}, "application/octet-stream"},
		{"empty payload", nil, "image/png"},
		{"oversized payload", make([]byte, MaxDecodedSize+1), "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBytes(tt.data, tt.mimeType)
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("FromBytes() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestFromBase64(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("fake-audio"))

	att, err := FromBase64(encoded, "audio/wav")
	if err != nil {
		t.Fatalf("FromBase64() error = %v", err)
	}
	if att.MIMEType != "audio/wav" {
		t.Errorf("MIMEType = %q, want audio/wav", att.MIMEType)
	}

	if _, err := FromBase64("%%%not-base64%%%", "audio/wav"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("FromBase64() with garbage error = %v, want ErrInvalidInput", err)
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}

	att, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	if att.MIMEType != "application/pdf" {
		t.Errorf("MIMEType = %q, want application/pdf", att.MIMEType)
	}

	if _, err := FromFile(filepath.Join(dir, "notes.txt")); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("FromFile() with unknown extension error = %v, want ErrInvalidInput", err)
	}
}

func TestModality(t *testing.T) {
	tests := []struct {
		name string
		att  *Attachment
		want Modality
	}{
		{"nil means text", nil, ModalityText},
		{"png", &Attachment{MIMEType: "image/png"}, ModalityImage},
		{"wav", &Attachment{MIMEType: "audio/wav"}, ModalityAudio},
		{"pdf", &Attachment{MIMEType: "application/pdf"}, ModalityDocument},
		{"codec-suffixed audio", &Attachment{MIMEType: "audio/webm;codecs=opus"}, ModalityAudio},
		{"unknown image subtype", &Attachment{MIMEType: "image/tiff"}, ModalityImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.att.Modality(); got != tt.want {
				t.Errorf("Modality() = %v, want %v", got, tt.want)
			}
		})
	}
}
