package geojsmap

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
)

func TestOSMLayerURL(t *testing.T) {
	assert.Equal(t, DefaultTileURL, NewOSMLayer(nil).URL())
	assert.Equal(t, DefaultTileURL, NewOSMLayer(Options{"url": ""}).URL())
	assert.Equal(t, "tiles/{z}/{x}/{y}.png", NewOSMLayer(Options{"url": "tiles/{z}/{x}/{y}.png"}).URL())
}

func TestOSMLayerTileURL(t *testing.T) {
	l := NewOSMLayer(Options{"url": "http://tile.openstreetmap.org/{z}/{x}/{y}.png"})
	tile := maptile.New(3, 5, maptile.Zoom(4))
	assert.Equal(t, "http://tile.openstreetmap.org/4/3/5.png", l.TileURL(tile))

	l = NewOSMLayer(nil)
	assert.Equal(t, "https://c.tile.openstreetmap.org/4/3/5.png", l.TileURL(tile))
	assert.Equal(t, "https://a.tile.openstreetmap.org/0/0/0.png", l.TileURL(maptile.New(0, 0, 0)))
}

func TestOSMLayerZoomRange(t *testing.T) {
	minz, maxz := NewOSMLayer(nil).ZoomRange()
	assert.Equal(t, ZoomMin, minz)
	assert.Equal(t, ZoomMax, maxz)

	minz, maxz = NewOSMLayer(Options{"minZoom": 2, "maxZoom": 30.0}).ZoomRange()
	assert.Equal(t, 2, minz)
	assert.Equal(t, ZoomMax, maxz)

	minz, _ = NewOSMLayer(Options{"minZoom": int64(-3)}).ZoomRange()
	assert.Equal(t, ZoomMin, minz)
}

func TestCoverCount(t *testing.T) {
	info := CoverCount(orb.Point{116.39, 39.9}, 0, 3)
	assert.Len(t, info, 4)
	for z := 0; z <= 3; z++ {
		assert.Equal(t, int64(1), info[z])
	}
}
