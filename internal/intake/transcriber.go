package intake

import (
	"context"
	"io"

	"github.com/salus-health/salus/internal/errors"
)

// Transcriber converts spoken audio to text for the voice entry path.
type Transcriber interface {
	// Available reports whether transcription can be offered at all.
	Available() bool
	// Transcribe converts audio to text.
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// UnavailableTranscriber is the default: voice input is disabled and typed
// input carries the session.
type UnavailableTranscriber struct{}

func (UnavailableTranscriber) Available() bool { return false }

func (UnavailableTranscriber) Transcribe(context.Context, io.Reader) (string, error) {
	return "", errors.NewCapabilityError("voice", nil)
}
