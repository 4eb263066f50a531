package geojsmap

import (
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var errNoFeatures = errors.New("not a geojson feature, collection or geometry")

//ParseFeatureCollection accepts a FeatureCollection, a Feature or a bare Geometry
func ParseFeatureCollection(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err == nil && fc.Type == "FeatureCollection" {
		return fc, nil
	}

	f, err := geojson.UnmarshalFeature(data)
	if err == nil && f.Type == "Feature" {
		fc := geojson.NewFeatureCollection()
		fc.Append(f)
		return fc, nil
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil || g.Geometry() == nil {
		return nil, errNoFeatures
	}
	fc = geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(g.Geometry()))
	return fc, nil
}

//LoadFeatureCollection reads a geojson file
func LoadFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read file: %w", err)
	}
	fc, err := ParseFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("unable to unmarshal %s: %w", path, err)
	}
	return fc, nil
}

//LoadCollection geometries of a geojson file
func LoadCollection(path string) (orb.Collection, error) {
	fc, err := LoadFeatureCollection(path)
	if err != nil {
		return nil, err
	}
	var collection orb.Collection
	for _, f := range fc.Features {
		if f.Geometry != nil {
			collection = append(collection, f.Geometry)
		}
	}
	return collection, nil
}
