package validate_test

import (
	"strings"
	"testing"

	"academy-service/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain digits", raw: "9876543210", want: "9876543210"},
		{name: "spaces stripped", raw: "98765 43210", want: "9876543210"},
		{name: "dashes and dots stripped", raw: "987-654.3210", want: "9876543210"},
		{name: "parentheses stripped", raw: "(987) 654 3210", want: "9876543210"},
		{name: "country code kept", raw: "+91 98765 43210", want: "+919876543210"},
		{name: "surrounding whitespace", raw: "  9876543210 ", want: "9876543210"},
		{name: "seven digits minimum", raw: "1234567", want: "1234567"},
		{name: "empty", raw: "", wantErr: true},
		{name: "too short", raw: "12345", wantErr: true},
		{name: "too long", raw: "1234567890123456", wantErr: true},
		{name: "letters", raw: "98765abcde", wantErr: true},
		{name: "plus in the middle", raw: "98765+43210", wantErr: true},
		{name: "only plus", raw: "+", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validate.NormalizePhone(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, validate.ErrInvalidPhone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), 50)
		})
	}
}

func TestNormalizePhoneDeterministic(t *testing.T) {
	first, err := validate.NormalizePhone("+91 98765 43210")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		got, err := validate.NormalizePhone("+91 98765 43210")
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "already canonical", raw: "asha@example.com", want: "asha@example.com"},
		{name: "lowercased", raw: "Asha@X.com", want: "asha@x.com"},
		{name: "whitespace trimmed", raw: "  asha@example.com ", want: "asha@example.com"},
		{name: "plus addressing", raw: "asha+fees@example.com", want: "asha+fees@example.com"},
		{name: "empty", raw: "", wantErr: true},
		{name: "missing at", raw: "asha.example.com", wantErr: true},
		{name: "missing domain dot", raw: "asha@example", wantErr: true},
		{name: "two ats", raw: "asha@x@example.com", wantErr: true},
		{name: "spaces inside", raw: "asha b@example.com", wantErr: true},
		{name: "over length bound", raw: strings.Repeat("a", 250) + "@x.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validate.NormalizeEmail(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, validate.ErrInvalidEmail)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), 255)
		})
	}
}
