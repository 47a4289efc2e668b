package repositories

// AudioSink decodes and plays an encoded audio clip.
// Callers log returned errors and carry on.
type AudioSink interface {
	PlayFromEncoded(audioBase64 string) error
}
