package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const testMap = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.0" orientation="staggered" width="2" height="1" tilewidth="16" tileheight="16">
 <tileset firstgid="1" source="tiles.tsx"/>
 <properties><property name="title" value="dungeon"/></properties>
 <layer name="ground" width="2" height="1">
  <data encoding="csv">1,2</data>
 </layer>
</map>`

const testTileset = `<tileset name="tiles" tilewidth="16" tileheight="16"><image source="tiles.png" width="32" height="16"/></tileset>`

func writeMap(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "level.tmx"), []byte(testMap), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiles.tsx"), []byte(testTileset), 0o644))
	return filepath.Join(dir, "level.tmx")
}

func TestRunJSON(t *testing.T) {
	filename := writeMap(t)

	var out bytes.Buffer
	require.NoError(t, run(filename, options{format: "json", tiles: true}, zap.NewNop(), &out))

	var got struct {
		Orientation string            `json:"orientation"`
		Properties  map[string]string `json:"properties"`
		Tilesets    []struct {
			Name  string `json:"name"`
			Image struct {
				Source string `json:"source"`
			} `json:"image"`
		} `json:"tilesets"`
		Layers []struct {
			Tiles []uint32 `json:"tiles"`
		} `json:"layers"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))

	assert.Equal(t, "staggered", got.Orientation)
	assert.Equal(t, "dungeon", got.Properties["title"])
	require.Len(t, got.Tilesets, 1)
	assert.Equal(t, "tiles", got.Tilesets[0].Name)
	assert.Equal(t, filepath.Join(filepath.Dir(filename), "tiles.png"), got.Tilesets[0].Image.Source)
	require.Len(t, got.Layers, 1)
	assert.Equal(t, []uint32{1, 2}, got.Layers[0].Tiles)
}

func TestRunYAMLOmitsTiles(t *testing.T) {
	filename := writeMap(t)

	var out bytes.Buffer
	require.NoError(t, run(filename, options{format: "yaml"}, zap.NewNop(), &out))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))

	assert.Equal(t, "staggered", got["orientation"])
	layers, ok := got["layers"].([]any)
	require.True(t, ok)
	require.Len(t, layers, 1)
	assert.NotContains(t, layers[0], "tiles")
}

func TestRunErrors(t *testing.T) {
	filename := writeMap(t)

	err := run(filename, options{format: "toml"}, zap.NewNop(), &bytes.Buffer{})
	assert.ErrorIs(t, err, errUnknownFormat)

	err = run(filepath.Join(t.TempDir(), "missing.tmx"), options{format: "yaml"}, zap.NewNop(), &bytes.Buffer{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
