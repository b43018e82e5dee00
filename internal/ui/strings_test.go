package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		limit int
		want  string
	}{
		{"fits", "Buy milk", 10, "Buy milk"},
		{"exact", "Buy milk", 8, "Buy milk"},
		{"ellipsis", "Buy milk and eggs", 10, "Buy mil..."},
		{"tiny limit", "Buy milk", 3, "Buy"},
		{"no limit", "  Buy milk  ", 0, "Buy milk"},
		{"runes", "Café au lait", 6, "Caf..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.value, tt.limit))
		})
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "items", plural(0, "item", "items"))
	assert.Equal(t, "item", plural(1, "item", "items"))
	assert.Equal(t, "items", plural(2, "item", "items"))
}
