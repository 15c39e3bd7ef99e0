package deepl

import "context"

// MockTranslator implements clients.Translator for testing
type MockTranslator struct {
	MockTranslateToGerman func(ctx context.Context, text string) (string, error)

	// Requests records every text submitted for translation
	Requests []string
}

// NewMockTranslator creates a new mock translator
func NewMockTranslator() *MockTranslator {
	return &MockTranslator{}
}

func (m *MockTranslator) TranslateToGerman(ctx context.Context, text string) (string, error) {
	m.Requests = append(m.Requests, text)
	if m.MockTranslateToGerman != nil {
		return m.MockTranslateToGerman(ctx, text)
	}
	return "Übersetzung: " + text, nil
}
