package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertRequest_WithDefaults(t *testing.T) {
	tests := []struct {
		name     string
		req      ConvertRequest
		expected ConvertRequest
	}{
		{
			name:     "пустой запрос",
			req:      ConvertRequest{Text: "hello"},
			expected: ConvertRequest{Text: "hello", VoiceName: "Alex", Speed: 1.5},
		},
		{
			name:     "свои значения",
			req:      ConvertRequest{Text: "hi", VoiceName: "Victoria", Speed: 0.8},
			expected: ConvertRequest{Text: "hi", VoiceName: "Victoria", Speed: 0.8},
		},
		{
			name:     "отрицательная скорость не заменяется",
			req:      ConvertRequest{Text: "hi", Speed: -1},
			expected: ConvertRequest{Text: "hi", VoiceName: "Alex", Speed: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.req.WithDefaults("Alex", 1.5))
		})
	}
}
