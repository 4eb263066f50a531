package geojsmap

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/paulmach/orb"
	log "github.com/sirupsen/logrus"
)

//MIMEType custom mime type understood by the geojs renderer
const MIMEType = "application/geojs+json"

//PlainText fallback mime type
const PlainText = "text/plain"

//PlainTextRepr human readable placeholder sent with every bundle
const PlainTextRepr = "<geojsmap.Map object>"

//OptionNames recognized top level map options, in document order
var OptionNames = []string{
	"allowRotation",
	"center",
	"clampBoundsX",
	"clampBoundsY",
	"clampZoom",
	"discreteZoom",
	"gcs",
	"ingcs",
	"maxBounds",
	"minZoom",
	"maxZoom",
	"rotation",
	"unitsPerPixel",
	"zoom",
}

//Options free form option set, values must be json-able
type Options map[string]interface{}

//Copy shallow copy, nil stays nil
func (o Options) Copy() Options {
	if o == nil {
		return nil
	}
	c := make(Options, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

//Bounds geojs map bounds, in gcs units
type Bounds struct {
	Left   float64 `json:"left" mapstructure:"left"`
	Top    float64 `json:"top" mapstructure:"top"`
	Right  float64 `json:"right" mapstructure:"right"`
	Bottom float64 `json:"bottom" mapstructure:"bottom"`
}

//BoundsFromOrb converts an orb bound
func BoundsFromOrb(b orb.Bound) Bounds {
	return Bounds{Left: b.Left(), Top: b.Top(), Right: b.Right(), Bottom: b.Bottom()}
}

//MapOptions recognized map options, nil means unset
type MapOptions struct {
	AllowRotation *bool      `mapstructure:"allowRotation"`
	Center        *orb.Point `mapstructure:"center"`
	ClampBoundsX  *bool      `mapstructure:"clampBoundsX"`
	ClampBoundsY  *bool      `mapstructure:"clampBoundsY"`
	ClampZoom     *bool      `mapstructure:"clampZoom"`
	DiscreteZoom  *bool      `mapstructure:"discreteZoom"`
	GCS           *string    `mapstructure:"gcs"`
	InGCS         *string    `mapstructure:"ingcs"`
	MaxBounds     *Bounds    `mapstructure:"maxBounds"`
	MinZoom       *float64   `mapstructure:"minZoom"`
	MaxZoom       *float64   `mapstructure:"maxZoom"`
	Rotation      *float64   `mapstructure:"rotation"`
	UnitsPerPixel *float64   `mapstructure:"unitsPerPixel"`
	Zoom          *float64   `mapstructure:"zoom"`
}

// set returns the recognized options that currently hold a value.
func (o *MapOptions) set() Options {
	opts := Options{}
	if o.AllowRotation != nil {
		opts["allowRotation"] = *o.AllowRotation
	}
	if o.Center != nil {
		opts["center"] = *o.Center
	}
	if o.ClampBoundsX != nil {
		opts["clampBoundsX"] = *o.ClampBoundsX
	}
	if o.ClampBoundsY != nil {
		opts["clampBoundsY"] = *o.ClampBoundsY
	}
	if o.ClampZoom != nil {
		opts["clampZoom"] = *o.ClampZoom
	}
	if o.DiscreteZoom != nil {
		opts["discreteZoom"] = *o.DiscreteZoom
	}
	if o.GCS != nil {
		opts["gcs"] = *o.GCS
	}
	if o.InGCS != nil {
		opts["ingcs"] = *o.InGCS
	}
	if o.MaxBounds != nil {
		opts["maxBounds"] = *o.MaxBounds
	}
	if o.MinZoom != nil {
		opts["minZoom"] = *o.MinZoom
	}
	if o.MaxZoom != nil {
		opts["maxZoom"] = *o.MaxZoom
	}
	if o.Rotation != nil {
		opts["rotation"] = *o.Rotation
	}
	if o.UnitsPerPixel != nil {
		opts["unitsPerPixel"] = *o.UnitsPerPixel
	}
	if o.Zoom != nil {
		opts["zoom"] = *o.Zoom
	}
	return opts
}

//Document the structure handed to the renderer
type Document struct {
	Options Options   `json:"options"`
	Layers  []Options `json:"layers"`
}

//Map geojs map, owns its layers
type Map struct {
	MapOptions
	//Metadata sent along with the bundle under MIMEType
	Metadata Options

	options  Options
	// recognized values as decoded at construction
	decoded  Options
	layers   []Layer
	registry *Registry
	logger   log.FieldLogger
	diag     *Diagnostics
}

//NewMap creates a map from construction options. Every option is kept as
//given; recognized ones are also decoded into MapOptions when their value
//fits the field type. The document keeps the raw value until the field is
//changed after construction.
func NewMap(options Options) *Map {
	m := &Map{
		Metadata: Options{},
		options:  options.Copy(),
		registry: DefaultRegistry,
	}
	if m.options == nil {
		m.options = Options{}
	}
	for _, name := range OptionNames {
		v, ok := m.options[name]
		if !ok || v == nil {
			continue
		}
		// one key at a time so a bad value only loses its own field
		_ = decodeOptions(map[string]interface{}{name: v}, &m.MapOptions)
	}
	m.decoded = m.MapOptions.set()
	return m
}

func decodeOptions(in interface{}, out interface{}) error {
	return mapstructure.Decode(in, out)
}

//WithRegistry swaps the layer registry used by CreateLayer
func (m *Map) WithRegistry(r *Registry) *Map {
	if r != nil {
		m.registry = r
	}
	return m
}

//SetLogger attaches a diagnostic logger, nil detaches.
//A file opened by CreateLogger is closed first.
func (m *Map) SetLogger(l log.FieldLogger) {
	m.CloseLogger()
	m.logger = l
}

//CreateLogger opens a diagnostics file under folder and attaches it.
//The map owns the file: it is closed by the next CreateLogger, SetLogger
//or CloseLogger call.
func (m *Map) CreateLogger(folder, filename string) (*Diagnostics, error) {
	d, err := NewDiagnostics(folder, filename)
	if err != nil {
		return nil, err
	}
	m.CloseLogger()
	m.logger = d.Entry()
	m.diag = d
	return d, nil
}

//CloseLogger detaches the logger and closes the file opened by CreateLogger
func (m *Map) CloseLogger() error {
	m.logger = nil
	if m.diag == nil {
		return nil
	}
	d := m.diag
	m.diag = nil
	return d.Close()
}

//CreateLayer builds a layer of the registered type and appends it
func (m *Map) CreateLayer(layerType string, options Options) (Layer, error) {
	r := m.registry
	if r == nil {
		r = DefaultRegistry
	}
	ctor, err := r.Lookup(layerType)
	if err != nil {
		return nil, err
	}
	layer := ctor(options)
	m.layers = append(m.layers, layer)
	if m.logger != nil {
		m.logger.Debugf("created %s layer #%d", layerType, len(m.layers)-1)
	}
	return layer, nil
}

//Layers layers in render order
func (m *Map) Layers() []Layer {
	out := make([]Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

//Len number of layers
func (m *Map) Len() int {
	return len(m.layers)
}

//FitBounds centers the map on b and clamps panning to it
func (m *Map) FitBounds(b orb.Bound) {
	c := b.Center()
	mb := BoundsFromOrb(b)
	m.Center = &c
	m.MaxBounds = &mb
}

//FitCollection fits the map to the union bound of all geometries
func (m *Map) FitCollection(c orb.Collection) {
	if len(c) == 0 {
		return
	}
	bound := c[0].Bound()
	for _, g := range c[1:] {
		bound = bound.Union(g.Bound())
	}
	m.FitBounds(bound)
}

//BuildDocument assembles options and layers, it does not modify the map
func (m *Map) BuildDocument() Document {
	opts := m.options.Copy()
	if opts == nil {
		opts = Options{}
	}
	for k, v := range m.MapOptions.set() {
		if dv, ok := m.decoded[k]; ok && reflect.DeepEqual(dv, v) {
			// untouched since construction, raw value wins
			continue
		}
		opts[k] = v
	}
	layers := make([]Options, 0, len(m.layers))
	for _, l := range m.layers {
		layers = append(layers, l.BuildDocument())
	}
	return Document{Options: opts, Layers: layers}
}

//Bundle mime type keyed display payload
type Bundle map[string]interface{}

//Metadata mime type keyed display metadata
type Metadata map[string]interface{}

//Bundle builds the display bundle and its metadata
func (m *Map) Bundle() (Bundle, Metadata) {
	bundle := Bundle{
		MIMEType:  m.BuildDocument(),
		PlainText: PlainTextRepr,
	}
	md := m.Metadata.Copy()
	if md == nil {
		md = Options{}
	}
	metadata := Metadata{MIMEType: md}
	return bundle, metadata
}

//Display sends the bundle to the presentation sink
func (m *Map) Display(d Displayer) error {
	if m.logger != nil {
		m.logger.Debug("enter Map.Display")
	}
	bundle, metadata := m.Bundle()
	if m.logger != nil {
		m.logger.Debugf("display bundle: %v", bundle)
		m.logger.Debugf("metadata: %v", metadata)
	}
	return d.Display(bundle, metadata)
}

//Bool returns a pointer to v
func Bool(v bool) *bool { return &v }

//Float returns a pointer to v
func Float(v float64) *float64 { return &v }

//String returns a pointer to v
func String(v string) *string { return &v }

//Point returns a pointer to the point x, y
func Point(x, y float64) *orb.Point { return &orb.Point{x, y} }
