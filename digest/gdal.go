package digest

import (
	"github.com/paulmach/orb"

	"github.com/nci/geodigest/geo"
)

// gdalDigestor claims any file the I/O layer can open in raster mode.
type gdalDigestor struct {
	opener    geo.Opener
	transform geo.PointTransform
}

func (g *gdalDigestor) Name() string {
	return "gdal"
}

func (g *gdalDigestor) Digest(path string, meta *Metadata) (bool, error) {
	ds, err := g.opener.Open(path, geo.RasterMode)
	if err != nil {
		return false, nil
	}
	defer ds.Close()

	driver := ds.Driver()

	// A VRT whose file list contains only itself references no real
	// source rasters.
	if driver == "VRT" && len(ds.FileList()) == 1 {
		return true, invalidf("VRT file does not reference existing source files")
	}

	proj, err := ds.Projection()
	if err != nil {
		return true, invalidf("error converting srs to proj4: %v", err)
	}

	gt := ds.GeoTransform()
	width, height := ds.RasterSize()
	native := orb.Bound{
		Min: orb.Point{gt[0], gt[3] + gt[5]*float64(height)},
		Max: orb.Point{gt[0] + gt[1]*float64(width), gt[3]},
	}
	bound, err := geo.TransformBound(proj, geo.Proj4WGS84, native, g.transform)
	if err != nil {
		return true, invalidf("error getting extent: %v", err)
	}

	bandCount := ds.BandCount()
	bands := make([]BandMeta, 0, bandCount)
	for i := 1; i <= bandCount; i++ {
		band, err := ds.Band(i)
		if err != nil {
			return true, externalf("error reading band %d: %v", i, err)
		}

		stats, err := band.Statistics()
		if err != nil {
			if driver == "VRT" {
				return true, externalf("error getting statistics of band. 1 or more of the VRT file's relative sources may be missing: %v", err)
			}
			return true, externalf("error getting statistics of band: %v", err)
		}

		bands = append(bands, BandMeta{
			Stats:                 stats,
			Scale:                 band.Scale(),
			UnitType:              band.UnitType(),
			RasterDatatype:        band.DataType(),
			CategoryNames:         band.CategoryNames(),
			HasArbitraryOverviews: band.HasArbitraryOverviews(),
			Overviews:             band.Overviews(),
			NoData:                band.NoData(),
			ID:                    band.ID(),
			BlockSize:             band.BlockSize(),
			Color:                 band.ColorInterpretation(),
		})
	}

	meta.DSType = "gdal"
	meta.Driver = driver
	meta.Projection = proj
	meta.setExtent(bound)

	raster := &RasterMeta{
		PixelSize: [2]float64{gt[1], -gt[5]},
		Origin:    [2]float64{gt[0], gt[3]},
		Width:     width,
		Height:    height,
		BandCount: bandCount,
		Bands:     bands,
		Units: UnitsMeta{
			Linear:  ds.LinearUnits(),
			Angular: ds.AngularUnits(),
		},
	}
	if bandCount > 0 {
		raster.NoData = bands[0].NoData
	}
	meta.Raster = raster

	return true, nil
}
