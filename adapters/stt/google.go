package stt

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/domain/repositories"
)

const (
	defaultLanguage   = "en-US"
	defaultSampleRate = 16000
	defaultEncoding   = "LINEAR16"
)

// GoogleConfig configures recognition. Zero values select the wearable's
// format: 16 kHz LINEAR16 in en-US.
type GoogleConfig struct {
	Language   string
	SampleRate int
	Encoding   string
}

// GoogleSpeechToText transcribes buffered clips with Google Cloud Speech.
// Credentials come from the environment (Application Default Credentials).
type GoogleSpeechToText struct {
	client *speech.Client
	config *speechpb.RecognitionConfig
	logger *zap.Logger
}

var _ repositories.SpeechRecognizer = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText creates the Speech client
func NewGoogleSpeechToText(ctx context.Context, config GoogleConfig, logger *zap.Logger) (*GoogleSpeechToText, error) {
	recognition, err := recognitionConfig(config)
	if err != nil {
		return nil, err
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	logger.Info("Google speech recognition ready",
		zap.String("language", recognition.LanguageCode),
		zap.Int32("sampleRate", recognition.SampleRateHertz),
		zap.String("encoding", recognition.Encoding.String()))

	return &GoogleSpeechToText{
		client: client,
		config: recognition,
		logger: logger,
	}, nil
}

// Transcribe implements repositories.SpeechRecognizer
func (g *GoogleSpeechToText) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("no audio data received")
	}

	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: g.config,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to recognize speech: %w", err)
	}

	text := transcript(resp)
	g.logger.Info("Transcribed audio",
		zap.Int("audioSize", len(audio)),
		zap.String("transcript", text))
	return text, nil
}

// Close releases the client connection
func (g *GoogleSpeechToText) Close() error {
	return g.client.Close()
}

// transcript joins the best alternative of every result
func transcript(resp *speechpb.RecognizeResponse) string {
	if resp == nil {
		return ""
	}
	parts := make([]string, 0, len(resp.Results))
	for _, result := range resp.Results {
		if result == nil || len(result.Alternatives) == 0 {
			continue
		}
		if text := strings.TrimSpace(result.Alternatives[0].Transcript); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func recognitionConfig(config GoogleConfig) (*speechpb.RecognitionConfig, error) {
	if config.Language == "" {
		config.Language = defaultLanguage
	}
	if config.SampleRate == 0 {
		config.SampleRate = defaultSampleRate
	}
	if config.SampleRate < 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", config.SampleRate)
	}
	if config.Encoding == "" {
		config.Encoding = defaultEncoding
	}

	encoding, err := getAudioEncoding(config.Encoding)
	if err != nil {
		return nil, err
	}

	return &speechpb.RecognitionConfig{
		Encoding:        encoding,
		SampleRateHertz: int32(config.SampleRate),
		LanguageCode:    config.Language,
	}, nil
}

// getAudioEncoding converts string encoding to Google Speech API enum
func getAudioEncoding(encoding string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch encoding {
	case "WAV", "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "AMR":
		return speechpb.RecognitionConfig_AMR, nil
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB, nil
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
