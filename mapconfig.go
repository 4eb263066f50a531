package geojsmap

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/paulmach/orb"
)

// Layer keys consumed while building, never forwarded to the renderer.
const (
	cfgLayerType  = "layerType"
	cfgGeoJSON    = "geojson"
	cfgSpatialite = "spatialite"
)

//MapConfig a map definition file
//
//	fit = true
//	[options]
//	zoom = 4
//	center = [10.0, 20.0]
//	[[layers]]
//	layerType = "osm"
//	url = "tiles/{z}/{x}/{y}.png"
//	[[layers]]
//	layerType = "feature"
//	type = "point"
//	geojson = "points.geojson"
type MapConfig struct {
	Name     string    `toml:"name" json:"name"`
	Fit      bool      `toml:"fit" json:"fit"`
	Options  Options   `toml:"options" json:"options"`
	Metadata Options   `toml:"metadata" json:"metadata"`
	Layers   []Options `toml:"layers" json:"layers"`

	dir string
}

//SpatialiteSource feature layer data read from a spatialite table
type SpatialiteSource struct {
	File   string `mapstructure:"file"`
	Table  string `mapstructure:"table"`
	Column string `mapstructure:"column"`
}

//LoadConfig reads a .toml or .json map definition
func LoadConfig(path string) (*MapConfig, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map config: %w", err)
	}
	cfg := &MapConfig{dir: filepath.Dir(path)}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse map config %s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return cfg, nil
}

func (s *MapConfig) resolve(p string) string {
	if filepath.IsAbs(p) || s.dir == "" {
		return p
	}
	return filepath.Join(s.dir, p)
}

//Build creates the map and its layers, registry nil means DefaultRegistry
func (s *MapConfig) Build(registry *Registry) (*Map, error) {
	m := NewMap(s.Options).WithRegistry(registry)
	for k, v := range s.Metadata {
		m.Metadata[k] = v
	}

	var fit orb.Collection
	for i, lo := range s.Layers {
		tag, _ := lo[cfgLayerType].(string)
		opts := lo.Copy()
		delete(opts, cfgLayerType)
		delete(opts, cfgGeoJSON)
		delete(opts, cfgSpatialite)

		layer, err := m.CreateLayer(tag, opts)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		fl, ok := layer.(*FeatureLayer)
		if !ok {
			continue
		}
		if p, ok := lo[cfgGeoJSON].(string); ok && p != "" {
			if err := fl.LoadGeoJSON(s.resolve(p)); err != nil {
				return nil, fmt.Errorf("layer %d: %w", i, err)
			}
		}
		if src, ok := lo[cfgSpatialite]; ok {
			if err := s.loadSpatialite(fl, src); err != nil {
				return nil, fmt.Errorf("layer %d: %w", i, err)
			}
		}
		fit = append(fit, fl.Collection()...)
	}

	if s.Fit {
		m.FitCollection(fit)
	}
	return m, nil
}

func (s *MapConfig) loadSpatialite(fl *FeatureLayer, raw interface{}) error {
	var src SpatialiteSource
	if err := decodeOptions(raw, &src); err != nil {
		return fmt.Errorf("spatialite source: %w", err)
	}
	if src.Column == "" {
		src.Column = "geom"
	}
	db, err := OpenSpatialite(s.resolve(src.File))
	if err != nil {
		return err
	}
	defer db.Close()
	fc, err := QueryFeatures(db, src.Table, src.Column)
	if err != nil {
		return err
	}
	fl.SetData(fc)
	return nil
}
