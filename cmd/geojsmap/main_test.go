package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasdatatech/geojsmap"
)

func TestNewDisplayer(t *testing.T) {
	defer viper.Reset()

	viper.Set("output.format", "stdout")
	d, closeFn, err := newDisplayer()
	require.NoError(t, err)
	assert.IsType(t, &geojsmap.JSONDisplayer{}, d)
	closeFn()

	viper.Set("output.format", "files")
	viper.Set("output.directory", t.TempDir())
	d, _, err = newDisplayer()
	require.NoError(t, err)
	assert.IsType(t, &geojsmap.FileDisplayer{}, d)

	viper.Set("output.format", "sqlite")
	viper.Set("app.title", "test")
	d, closeFn, err = newDisplayer()
	require.NoError(t, err)
	assert.IsType(t, &geojsmap.Archive{}, d)
	closeFn()

	viper.Set("output.format", "mbtiles")
	_, _, err = newDisplayer()
	assert.Error(t, err)
}

func TestDisplayFile(t *testing.T) {
	defer viper.Reset()
	logDir := t.TempDir()
	viper.Set("log.directory", logDir)
	viper.Set("log.file", "cli.log")

	var got []geojsmap.Bundle
	d := geojsmap.DisplayFunc(func(b geojsmap.Bundle, _ geojsmap.Metadata) error {
		got = append(got, b)
		return nil
	})
	require.NoError(t, display(filepath.Join("..", "..", "testdata", "map.json"), d))
	require.Len(t, got, 1)
	doc, ok := got[0][geojsmap.MIMEType].(geojsmap.Document)
	require.True(t, ok)
	assert.Len(t, doc.Layers, 2)
	assert.FileExists(t, filepath.Join(logDir, "cli.log"))

	err := display(filepath.Join("..", "..", "testdata", "bogus.toml"), d)
	assert.Error(t, err)
	assert.Len(t, got, 1)
}
