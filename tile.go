package geojsmap

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/maptile/tilecover"
)

//ZoomMin 最小级别
const ZoomMin = 0

//ZoomMax 最大级别
const ZoomMax = 20

//DefaultTileURL osm tile server used when a layer carries no url
const DefaultTileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"

var subdomains = []string{"a", "b", "c"}

//OSMLayer raster tile layer
type OSMLayer struct {
	Options Options
}

//NewOSMLayer stores options as given
func NewOSMLayer(options Options) *OSMLayer {
	if options == nil {
		options = Options{}
	}
	return &OSMLayer{Options: options}
}

//BuildDocument shallow copy of the layer options
func (l *OSMLayer) BuildDocument() Options {
	doc := l.Options.Copy()
	if doc == nil {
		doc = Options{}
	}
	return doc
}

//URL tile url template, DefaultTileURL when unset
func (l *OSMLayer) URL() string {
	if u, ok := l.Options["url"].(string); ok && u != "" {
		return u
	}
	return DefaultTileURL
}

//TileURL 获取瓦片URL
func (l *OSMLayer) TileURL(t maptile.Tile) string {
	url := strings.Replace(l.URL(), "{x}", strconv.Itoa(int(t.X)), -1)
	url = strings.Replace(url, "{y}", strconv.Itoa(int(t.Y)), -1)
	url = strings.Replace(url, "{z}", strconv.Itoa(int(t.Z)), -1)
	url = strings.Replace(url, "{s}", subdomains[int(t.X+t.Y)%len(subdomains)], -1)
	return url
}

//ZoomRange min and max zoom of the layer, clamped to ZoomMin..ZoomMax
func (l *OSMLayer) ZoomRange() (int, int) {
	minz, maxz := ZoomMin, ZoomMax
	if v, ok := number(l.Options["minZoom"]); ok {
		minz = int(v)
	}
	if v, ok := number(l.Options["maxZoom"]); ok {
		maxz = int(v)
	}
	if minz < ZoomMin {
		minz = ZoomMin
	}
	if maxz > ZoomMax {
		maxz = ZoomMax
	}
	return minz, maxz
}

//CoverCount tiles needed to cover g, per zoom level
func CoverCount(g orb.Geometry, minz int, maxz int) map[int]int64 {
	info := make(map[int]int64)
	for z := minz; z <= maxz; z++ {
		info[z] = tilecover.GeometryCount(g, maptile.Zoom(z))
	}
	return info
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
