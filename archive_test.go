package geojsmap

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	a, err := OpenArchive(dir, "notebook", "")
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, dir, filepath.Dir(a.File))
	assert.True(t, strings.HasSuffix(a.File, ".notebook.sqlite"))

	format, err := a.Meta("format")
	require.NoError(t, err)
	assert.Equal(t, MIMEType, format)
	version, err := a.Meta("version")
	require.NoError(t, err)
	assert.Equal(t, ArchiveVersion, version)
	_, err = a.Meta("pixel_scale")
	assert.Equal(t, sql.ErrNoRows, err)

	m := scenarioMap(t)
	m.Metadata["expanded"] = true
	require.NoError(t, m.Display(a))
	require.NoError(t, NewMap(Options{"foo": "bar"}).Display(a))

	displays, err := a.Displays()
	require.NoError(t, err)
	require.Len(t, displays, 2)
	assert.NotEqual(t, displays[0].ID, displays[1].ID)
	assert.JSONEq(t, `{
		"options": {"zoom": 4, "center": [10, 20]},
		"layers": [{"url": "tiles/{z}/{x}/{y}.png"}, {"type": "point", "data": []}]
	}`, string(displays[0].Data))
	assert.JSONEq(t, `{"expanded": true}`, string(displays[0].Metadata))
	assert.JSONEq(t, `{"options": {"foo": "bar"}, "layers": []}`, string(displays[1].Data))
	assert.False(t, displays[0].Created.After(displays[1].Created))

	require.NoError(t, a.Optimize())
}

func TestArchiveReopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "displays.sqlite")
	a, err := OpenArchive("", "first", file)
	require.NoError(t, err)
	require.NoError(t, NewMap(nil).Display(a))
	require.NoError(t, a.Close())

	a, err = OpenArchive("", "second", file)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, file, a.File)

	name, err := a.Meta("name")
	require.NoError(t, err)
	assert.Equal(t, "second", name)

	displays, err := a.Displays()
	require.NoError(t, err)
	require.Len(t, displays, 1)
	var doc Document
	require.NoError(t, json.Unmarshal(displays[0].Data, &doc))
	assert.Empty(t, doc.Layers)
}
