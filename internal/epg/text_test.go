// SPDX-License-Identifier: MIT

package epg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapitalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"film", "Film"},
		{"SÉRIE", "Série"},
		{"dessin ANIMÉ", "Dessin animé"},
		{"  théâtre ", "Théâtre"},
		{"émission", "Émission"},
		{"e\u0301mission", "Émission"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, capitalize(tt.in), "input %q", tt.in)
	}
}
