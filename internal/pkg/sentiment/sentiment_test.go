package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolarity(t *testing.T) {
	tests := []struct {
		name string
		text string
		want func(float64) bool
	}{
		{"empty", "", func(v float64) bool { return v == 0 }},
		{"neutral", "the car was serviced on tuesday", func(v float64) bool { return v == 0 }},
		{"positive", "great service, quick and friendly staff!", func(v float64) bool { return v > 0 }},
		{"negative", "terrible experience, slow and rude", func(v float64) bool { return v < 0 }},
		{"mixed leans positive", "good repair but a slow intake", func(v float64) bool { return v == 0 }},
		{"fully positive is one", "excellent excellent", func(v float64) bool { return v == 1 }},
		{"fully negative is minus one", "awful awful awful", func(v float64) bool { return v == -1 }},
		{"punctuation stripped", "Great! Really helpful.", func(v float64) bool { return v > 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Polarity(tt.text)
			assert.True(t, tt.want(got), "unexpected polarity %v for %q", got, tt.text)
			assert.GreaterOrEqual(t, got, -1.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}
