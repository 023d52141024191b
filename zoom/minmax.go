// Package zoom derives recommended min/max rendering zoom levels from
// either vector data volume and extent or raster pixel resolution.
package zoom

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/planar"

	"github.com/nci/geodigest/geo"
)

const (
	// MaxZoom is the finest zoom level ever recommended.
	MaxZoom = 22

	// maxAvgTileSize is the largest acceptable average tile size in
	// bytes. Coarser levels whose tiles would exceed it carry no
	// renderable value for sparse data.
	maxAvgTileSize = 500 * 1024

	// tileSizeGoal is the tile size at which a zoom level is considered
	// to carry all the detail the data has to offer.
	tileSizeGoal = 1000

	// earthCircumference in meters, used by the OSM ground-resolution
	// formula res = C*cos(lat)/2^(z+8).
	earthCircumference = 40075000
)

var (
	ErrInvalidBounds   = errors.New("error calculating min/max zoom: bounds invalid")
	ErrInvalidFilesize = errors.New("error calculating min/max zoom: total bytes less than or equal to zero")
)

// tileSpan counts the tiles covered by a geographic extent at one zoom
// level.
func tileSpan(extent orb.Bound, z maptile.Zoom) int64 {
	nw := maptile.At(orb.Point{extent.Min[0], extent.Max[1]}, z)
	se := maptile.At(orb.Point{extent.Max[0], extent.Min[1]}, z)

	x := int64(se.X) - int64(nw.X) + 1
	y := int64(se.Y) - int64(nw.Y) + 1
	return x * y
}

// Vector estimates the usable zoom range for vector or tabular data
// from the total file size and the WGS84 extent. It walks zoom levels
// from finest to coarsest: levels where the average tile drops under
// tileSizeGoal pull maxzoom down, and the walk stops as soon as the
// average tile exceeds maxAvgTileSize or the extent collapses into a
// single tile.
func Vector(bytes int64, extent orb.Bound) (int, int, error) {
	minzoom := 0
	maxzoom := MaxZoom

	for z := MaxZoom; z >= 0; z-- {
		tiles := tileSpan(extent, maptile.Zoom(z))
		if tiles <= 0 {
			return 0, 0, ErrInvalidBounds
		}
		if bytes <= 0 {
			return 0, 0, ErrInvalidFilesize
		}

		avgTileSize := float64(bytes) / float64(tiles)

		if avgTileSize < tileSizeGoal {
			maxzoom = z
		}

		if avgTileSize > maxAvgTileSize {
			minzoom = z
			return minzoom, maxzoom, nil
		} else if tiles == 1 || z == 0 {
			return 0, maxzoom, nil
		}
	}

	return minzoom, maxzoom, nil
}

// Raster estimates the usable zoom range for raster data from the
// native pixel size, the dataset center and its projection. The native
// pixel size is measured in spherical mercator meters and compared
// against the nominal resolution of each zoom level; maxzoom is one
// level finer than the coarsest level still out-resolving the source,
// and minzoom sits a fixed 6 levels below it.
func Raster(pixelSize [2]float64, center [2]float64, proj string, tr geo.PointTransform) (int, int, error) {
	// A vertical segment of one pixel height centered on the dataset,
	// measured in mercator meters after reprojection.
	half := pixelSize[0] / 2
	seg := []orb.Point{
		{center[0], center[1] - half},
		{center[0], center[1] + half},
	}

	out, err := tr(proj, geo.Proj4Mercator, seg)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to set min/max zoom: %v", err)
	}
	mercatorPixelSize := planar.Distance(out[0], out[1])

	lat := center[1]
	for z := 19; z >= 0; z-- {
		res := earthCircumference * math.Cos(lat*math.Pi/180) / math.Pow(2, float64(z+8))
		if res >= mercatorPixelSize {
			maxzoom := z + 1
			minzoom := maxzoom - 6
			if minzoom < 0 {
				minzoom = 0
			}
			return minzoom, maxzoom, nil
		}
	}

	return 0, 0, errors.New("failed to set min/max zoom")
}
