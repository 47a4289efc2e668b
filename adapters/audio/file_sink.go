package audio

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/domain/repositories"
)

// FileSink decodes clips and writes each one to its own file under dir.
// With an empty dir clips are decoded and discarded.
type FileSink struct {
	dir    string
	logger *zap.Logger
}

var _ repositories.AudioSink = (*FileSink)(nil)

// NewFileSink creates the sink, creating dir when needed
func NewFileSink(dir string, logger *zap.Logger) (*FileSink, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create audio dir: %w", err)
		}
	}
	return &FileSink{dir: dir, logger: logger}, nil
}

// PlayFromEncoded implements repositories.AudioSink
func (s *FileSink) PlayFromEncoded(audioBase64 string) error {
	data, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return fmt.Errorf("failed to decode audio data: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("empty audio clip")
	}

	if s.dir == "" {
		s.logger.Debug("Discarding audio clip", zap.Int("bytes", len(data)))
		return nil
	}

	path := filepath.Join(s.dir, uuid.NewString()+extension(data))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write audio clip: %w", err)
	}

	s.logger.Info("Saved audio clip",
		zap.String("path", path),
		zap.Int("bytes", len(data)))
	return nil
}

// extension guesses a file extension from the container magic bytes
func extension(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("RIFF")):
		return ".wav"
	case bytes.HasPrefix(data, []byte("OggS")):
		return ".ogg"
	case bytes.HasPrefix(data, []byte("ID3")), len(data) > 1 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return ".mp3"
	default:
		return ".bin"
	}
}
