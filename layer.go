package geojsmap

import (
	"fmt"
	"sort"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Layer tags known to the renderer.
const (
	LayerAnnotation = "annotation"
	LayerFeature    = "feature"
	LayerOSM        = "osm"
	LayerUI         = "ui"
)

//Layer one visual sublayer of a map
type Layer interface {
	BuildDocument() Options
}

//LayerConstructor builds a layer from its options
type LayerConstructor func(options Options) Layer

//UnsupportedLayerTypeError returned by CreateLayer for unregistered tags
type UnsupportedLayerTypeError struct {
	LayerType string
}

func (e *UnsupportedLayerTypeError) Error() string {
	return fmt.Sprintf("unsupported layer type %q", e.LayerType)
}

//Registry maps layer tags to constructors
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]LayerConstructor
}

//NewRegistry an empty registry
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]LayerConstructor)}
}

//DefaultRegistry used by every new Map, holds feature and osm
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(LayerFeature, func(o Options) Layer { return NewFeatureLayer(o) })
	DefaultRegistry.Register(LayerOSM, func(o Options) Layer { return NewOSMLayer(o) })
}

//Register adds or replaces the constructor for tag
func (r *Registry) Register(tag string, ctor LayerConstructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[tag] = ctor
}

//Lookup returns the constructor registered for tag
func (r *Registry) Lookup(tag string) (LayerConstructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.ctors[tag]
	if !ok || ctor == nil {
		return nil, &UnsupportedLayerTypeError{LayerType: tag}
	}
	return ctor, nil
}

//Tags registered tags, sorted
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.ctors))
	for t := range r.ctors {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

//FeatureLayer vector features drawn by the renderer
type FeatureLayer struct {
	Options Options
}

//NewFeatureLayer stores options as given
func NewFeatureLayer(options Options) *FeatureLayer {
	if options == nil {
		options = Options{}
	}
	return &FeatureLayer{Options: options}
}

//BuildDocument shallow copy of the layer options
func (l *FeatureLayer) BuildDocument() Options {
	doc := l.Options.Copy()
	if doc == nil {
		doc = Options{}
	}
	return doc
}

//SetData puts a feature collection under "data"
func (l *FeatureLayer) SetData(fc *geojson.FeatureCollection) {
	if l.Options == nil {
		l.Options = Options{}
	}
	l.Options["data"] = fc
}

//Collection geometries of the layer data, empty unless data is a collection
func (l *FeatureLayer) Collection() orb.Collection {
	fc, ok := l.Options["data"].(*geojson.FeatureCollection)
	if !ok || fc == nil {
		return nil
	}
	var c orb.Collection
	for _, f := range fc.Features {
		if f.Geometry != nil {
			c = append(c, f.Geometry)
		}
	}
	return c
}

//LoadGeoJSON reads path and sets it as layer data
func (l *FeatureLayer) LoadGeoJSON(path string) error {
	fc, err := LoadFeatureCollection(path)
	if err != nil {
		return err
	}
	l.SetData(fc)
	return nil
}
