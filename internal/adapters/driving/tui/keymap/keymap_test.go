package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"back", km.Back, []string{"esc"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"details", km.Details, []string{"enter"}},
		{"switch", km.Switch, []string{"tab"}},
		{"export", km.Export, []string{"e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, tt.binding.Keys())
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestKeyMap_ShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()

	require.Len(t, help, 4)
	assert.Equal(t, km.Quit.Keys(), help[3].Keys())
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	groups := km.FullHelp()

	require.Len(t, groups, 3)
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	assert.Equal(t, 8, total)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("tab", km.Switch))
	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("enter", km.Export))
}
