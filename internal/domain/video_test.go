package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidVideoID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"sm9", true},
		{"sm17759202", true},
		{"so12345", true},
		{"nm4242", true},
		{"", false},
		{"sm", false},
		{"12345", false},
		{"s12345", false},
		{"SM12345", false},
		{"sm12abc", false},
		{"watch/sm9", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidVideoID(tt.id), "id %q", tt.id)
	}
}
