package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextOffsets(t *testing.T) {
	assert.Equal(t, 0, textLen(""))
	assert.Equal(t, 3, textLen("abc"))
	assert.Equal(t, 3, textLen("あいう"))
	assert.Equal(t, 4, textLen("a😀b"))

	tests := []struct {
		s      string
		offset int
		index  int
		ok     bool
	}{
		{"abc", 0, 0, true},
		{"abc", 3, 3, true},
		{"abc", 4, 0, false},
		{"abc", -1, 0, false},
		{"あいう", 1, 3, true},
		{"あいう", 3, 9, true},
		{"a😀b", 1, 1, true},
		{"a😀b", 2, 0, false},
		{"a😀b", 3, 5, true},
	}
	for _, tt := range tests {
		i, ok := byteIndex(tt.s, tt.offset)
		assert.Equal(t, tt.ok, ok, "%q at %d", tt.s, tt.offset)
		if tt.ok {
			assert.Equal(t, tt.index, i, "%q at %d", tt.s, tt.offset)
		}
	}

	head, tail := splitText("a😀b", 2)
	assert.Equal(t, "a", head)
	assert.Equal(t, "😀b", tail)
}
