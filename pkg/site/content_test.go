package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[[entry]]
icon = "energy"
kind = "proposed"
title = "Energy recovery"
body = "Steam turbines convert combustion heat into grid power."

[[entry.facts]]
label = "Output"
value = "32 GWh/yr"

[[entry.facts]]
label = "Homes"
value = "9,400"

[[entry]]
icon = "energy"
title = "Energy"
body = "The stage every tonne of waste feeds."

[[entry]]
icon = "sorting"
title = "Sorting line"
body = "Optical and magnetic separation."
`

func TestParseContent(t *testing.T) {
	entries, err := ParseContent([]byte(sampleTOML))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "energy", entries[0].Icon)
	assert.Equal(t, "proposed", entries[0].Kind)
	assert.Equal(t, "Energy recovery", entries[0].Title)
	require.Len(t, entries[0].Facts, 2)
	assert.Equal(t, "Output", entries[0].Facts[0].Label)
	assert.Equal(t, "32 GWh/yr", entries[0].Facts[0].Value)

	assert.Empty(t, entries[2].Kind)
	assert.Empty(t, entries[2].Facts)
}

func TestParseContentMissingIcon(t *testing.T) {
	_, err := ParseContent([]byte("[[entry]]\ntitle = \"No icon\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing icon")
}

func TestParseContentBadTOML(t *testing.T) {
	_, err := ParseContent([]byte("[[entry\nbroken"))
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	entries, err := ParseContent([]byte(sampleTOML))
	require.NoError(t, err)
	store := NewContentStore(entries)

	// Exact kind wins.
	entry, ok := store.Lookup("energy", "proposed")
	require.True(t, ok)
	assert.Equal(t, "Energy recovery", entry.Title)

	// Other kinds fall back to the kind-agnostic entry.
	entry, ok = store.Lookup("energy", "current")
	require.True(t, ok)
	assert.Equal(t, "Energy", entry.Title)

	// Kindless entries serve every kind.
	entry, ok = store.Lookup("sorting", "proposed")
	require.True(t, ok)
	assert.Equal(t, "Sorting line", entry.Title)

	_, ok = store.Lookup("ghost", "proposed")
	assert.False(t, ok)
}

func TestLoadContentReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0644))

	store, err := LoadContent(path)
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())

	updated := sampleTOML + "\n[[entry]]\nicon = \"landfill\"\ntitle = \"Landfill\"\nbody = \"The shrinking endpoint.\"\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))
	require.NoError(t, store.Reload())
	assert.Equal(t, 4, store.Len())

	entry, ok := store.Lookup("landfill", "")
	require.True(t, ok)
	assert.Equal(t, "Landfill", entry.Title)
}

func TestLoadContentMissingFile(t *testing.T) {
	_, err := LoadContent(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestReloadWithoutBackingFile(t *testing.T) {
	store := NewContentStore([]Entry{{Icon: "energy", Title: "Energy"}})
	require.NoError(t, store.Reload())
	assert.Equal(t, 1, store.Len())
}
