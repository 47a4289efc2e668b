package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/genai"
)

func TestValidateGeminiConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  GeminiConfig
		wantErr bool
	}{
		{"valid", GeminiConfig{APIKey: "key"}, false},
		{"missing key", GeminiConfig{}, true},
		{"temperature too high", GeminiConfig{APIKey: "key", Temperature: 3}, true},
		{"negative tokens", GeminiConfig{APIKey: "key", MaxOutputTokens: -1}, true},
		{"negative timeout", GeminiConfig{APIKey: "key", Timeout: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGeminiConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGeminiConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	response := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "Hello "}, {Text: "there!"}}}},
		},
	}
	if got := extractText(response); got != "Hello there!" {
		t.Errorf("Expected joined text, got %q", got)
	}

	if got := extractText(&genai.GenerateContentResponse{}); got != "" {
		t.Errorf("Expected empty text without candidates, got %q", got)
	}
	if got := extractText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}); got != "" {
		t.Errorf("Expected empty text without content, got %q", got)
	}
}

func TestMockLLM(t *testing.T) {
	m := NewMockLLM("one", "two")

	for _, want := range []string{"one", "two", "one"} {
		got, err := m.Generate(context.Background(), "User made a wave gesture")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
	if len(m.Prompts()) != 3 {
		t.Errorf("Expected 3 prompts recorded, got %d", len(m.Prompts()))
	}

	m.Err = errors.New("quota exceeded")
	if _, err := m.Generate(context.Background(), "x"); err == nil {
		t.Error("Expected configured error")
	}
}
