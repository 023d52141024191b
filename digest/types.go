package digest

import (
	"github.com/paulmach/orb"

	"github.com/nci/geodigest/geo"
)

// Metadata is the normalized record describing one geospatial data
// file. The field names and nesting form the wire contract consumed by
// the rendering pipeline.
type Metadata struct {
	Filesize   int64       `json:"filesize"`
	DSType     string      `json:"dstype"`
	Driver     string      `json:"driver"`
	Projection string      `json:"projection"`
	Extent     [4]float64  `json:"extent"`
	Center     [2]float64  `json:"center"`
	FileType   string      `json:"filetype"`
	FileName   string      `json:"filename"`
	Layers     []string    `json:"layers"`
	JSON       *VectorJSON `json:"json,omitempty"`
	Raster     *RasterMeta `json:"raster,omitempty"`
	MinZoom    int         `json:"minzoom"`
	MaxZoom    int         `json:"maxzoom"`
}

// VectorJSON mirrors the vector-tile-source layer schema array.
type VectorJSON struct {
	VectorLayers []VectorLayer `json:"vector_layers"`
}

type VectorLayer struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	MinZoom     int               `json:"minzoom"`
	MaxZoom     int               `json:"maxzoom"`
	Fields      map[string]string `json:"fields"`
}

type RasterMeta struct {
	PixelSize [2]float64 `json:"pixelSize"`
	Origin    [2]float64 `json:"origin"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	BandCount int        `json:"bandCount"`
	Bands     []BandMeta `json:"bands"`
	NoData    *float64   `json:"nodata"`
	Units     UnitsMeta  `json:"units"`
}

// BandMeta carries per-band values straight through from the I/O
// layer; only band 1's nodata is interpreted (copied up to the raster
// record).
type BandMeta struct {
	Stats                 geo.BandStats      `json:"stats"`
	Scale                 float64            `json:"scale"`
	UnitType              string             `json:"unitType"`
	RasterDatatype        string             `json:"rasterDatatype"`
	CategoryNames         []string           `json:"categoryNames"`
	HasArbitraryOverviews bool               `json:"hasArbitraryOverviews"`
	Overviews             []geo.OverviewInfo `json:"overviews"`
	NoData                *float64           `json:"nodata"`
	ID                    int                `json:"id"`
	BlockSize             [2]int             `json:"blockSize"`
	Color                 string             `json:"color"`
}

type UnitsMeta struct {
	Linear  float64 `json:"linear"`
	Angular float64 `json:"angular"`
}

// setExtent records a WGS84 extent and derives the center midpoint.
func (m *Metadata) setExtent(b orb.Bound) {
	m.Extent = [4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
	m.Center = [2]float64{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2}
}

func (m *Metadata) bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{m.Extent[0], m.Extent[1]},
		Max: orb.Point{m.Extent[2], m.Extent[3]},
	}
}
