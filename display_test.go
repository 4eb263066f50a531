package geojsmap

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioMap(t *testing.T) *Map {
	m := NewMap(Options{"zoom": 4, "center": []interface{}{10, 20}})
	_, err := m.CreateLayer("osm", Options{"url": "tiles/{z}/{x}/{y}.png"})
	require.NoError(t, err)
	_, err = m.CreateLayer("feature", Options{"type": "point", "data": []interface{}{}})
	require.NoError(t, err)
	return m
}

const scenarioMessage = `{
	"data": {
		"application/geojs+json": {
			"options": {"zoom": 4, "center": [10, 20]},
			"layers": [
				{"url": "tiles/{z}/{x}/{y}.png"},
				{"type": "point", "data": []}
			]
		},
		"text/plain": "<geojsmap.Map object>"
	},
	"metadata": {"application/geojs+json": {}}
}`

func TestJSONDisplayer(t *testing.T) {
	var buf bytes.Buffer
	d := NewJSONDisplayer(&buf)
	require.NoError(t, scenarioMap(t).Display(d))
	assert.JSONEq(t, scenarioMessage, buf.String())
	assert.Contains(t, buf.String(), "<geojsmap.Map object>")

	buf.Reset()
	d.Indent = "  "
	require.NoError(t, NewMap(nil).Display(d))
	assert.True(t, strings.Count(buf.String(), "\n") > 1)
}

func TestFileDisplayer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	d := &FileDisplayer{Dir: dir}
	require.NoError(t, scenarioMap(t).Display(d))
	require.NotEmpty(t, d.Last)
	assert.True(t, strings.HasSuffix(d.Last, ".geojs.json"))

	data, err := ioutil.ReadFile(d.Last)
	require.NoError(t, err)
	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.NotEmpty(t, msg["id"])
	delete(msg, "id")
	stripped, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, scenarioMessage, string(stripped))

	first := d.Last
	require.NoError(t, NewMap(nil).Display(d))
	assert.NotEqual(t, first, d.Last)
	files, err := ioutil.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
