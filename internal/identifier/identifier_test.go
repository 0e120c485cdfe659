package identifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/identifier"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "SC001", identifier.Normalize(" sc001 "))
	assert.Equal(t, "YT999", identifier.Normalize("yt999"))
	assert.Equal(t, "", identifier.Normalize("   "))
}

func TestValidateStaff(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"SC001", true},
		{"AB12345", true},
		{"XY1", false},
		{"XY12", false},
		{"A1234", false},
		{"ABC123", false},
		{"SC001X", false},
		{"123456", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := identifier.Validate(tt.id, domain.PrincipalStaff)
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, domain.ErrInvalidFormat)
			}
		})
	}
}

func TestValidateYouth(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"YT999", true},
		{"Y1", false},
		{"ABC", true},
		{"YT999YT999YT999YT", false},
		{"YT-999", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := identifier.Validate(tt.id, domain.PrincipalYouth)
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, domain.ErrInvalidFormat)
			}
		})
	}
}
