package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHexColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "lower case long form",
			input:    "#4ecdc4",
			expected: "#4ECDC4",
		},
		{
			name:     "short form expands",
			input:    "#f06",
			expected: "#FF0066",
		},
		{
			name:     "missing hash",
			input:    "FF6B6B",
			expected: "#FF6B6B",
		},
		{
			name:     "surrounding whitespace",
			input:    "  #333333 ",
			expected: "#333333",
		},
		{
			name:    "named color rejected",
			input:   "red",
			wantErr: true,
		},
		{
			name:    "non hex digits",
			input:   "#GGGGGG",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "alpha channel not accepted",
			input:   "#FF112233",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizeHexColor(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
