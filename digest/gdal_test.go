package digest

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/context"

	"github.com/nci/geodigest/geo"
)

func TestDigestRaster(t *testing.T) {
	nodata := -9999.0
	opener := &fakeOpener{
		raster: &fakeDataset{
			driver: "GTiff",
			files:  []string{"/data/dem.tif"},
			proj:   geo.Proj4WGS84,
			gt:     [6]float64{144, 0.01, 0, -36, 0, -0.01},
			width:  100,
			height: 100,
			bands: []*fakeBand{
				{id: 1, stats: geo.BandStats{Min: 1, Max: 255, Mean: 92.4, StdDev: 11.2}, nodata: &nodata},
				{id: 2, stats: geo.BandStats{Min: 0, Max: 255, Mean: 101.9, StdDev: 9.8}},
			},
		},
	}

	path := writeTestFile(t, "dem.tif", "binary")
	d := newTestDigester(opener)

	meta, err := d.Digest(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkInvariants(t, meta)

	if meta.DSType != "gdal" || meta.Driver != "GTiff" {
		t.Errorf("unexpected dstype/driver: %v/%v", meta.DSType, meta.Driver)
	}
	if meta.FileType != ".tif" || meta.FileName != "dem" {
		t.Errorf("unexpected filetype/filename: %v/%v", meta.FileType, meta.FileName)
	}
	if meta.Extent != [4]float64{144, -37, 145, -36} {
		t.Errorf("unexpected extent: %v", meta.Extent)
	}

	raster := meta.Raster
	if raster == nil {
		t.Fatal("expected raster details")
	}
	if raster.PixelSize != [2]float64{0.01, 0.01} {
		t.Errorf("unexpected pixel size: %v", raster.PixelSize)
	}
	if raster.Origin != [2]float64{144, -36} {
		t.Errorf("unexpected origin: %v", raster.Origin)
	}
	if raster.Width != 100 || raster.Height != 100 || raster.BandCount != 2 {
		t.Errorf("unexpected raster shape: %vx%v bands=%v", raster.Width, raster.Height, raster.BandCount)
	}
	if raster.NoData == nil || *raster.NoData != -9999.0 {
		t.Errorf("expected band 1 nodata -9999 at the top level, actual %v", raster.NoData)
	}
	if len(raster.Bands) != 2 || raster.Bands[1].NoData != nil {
		t.Errorf("unexpected band metadata: %+v", raster.Bands)
	}

	// 0.01 degree pixels around 36.5S sit between the level 6 and
	// level 7 nominal resolutions.
	if meta.MinZoom != 1 || meta.MaxZoom != 7 {
		t.Errorf("expected zoom range (1, 7), actual (%v, %v)", meta.MinZoom, meta.MaxZoom)
	}
}

func TestDigestBrokenVRT(t *testing.T) {
	opener := &fakeOpener{
		raster: &fakeDataset{
			driver: "VRT",
			files:  []string{"/data/broken.vrt"},
			proj:   geo.Proj4WGS84,
		},
	}

	path := writeTestFile(t, "broken.vrt", "<VRTDataset/>")
	d := newTestDigester(opener)

	_, err := d.Digest(context.Background(), path)
	if KindOf(err) != KindInvalidFormat {
		t.Fatalf("expected an invalid format error, actual %v", err)
	}
	if !strings.Contains(err.Error(), "does not reference existing source files") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestDigestBandStatisticsFailure(t *testing.T) {
	tests := []struct {
		driver string
		files  []string
		hint   string
	}{
		{"VRT", []string{"/data/a.vrt", "/data/missing.tif"}, "relative sources may be missing"},
		{"GTiff", []string{"/data/a.tif"}, "error getting statistics of band"},
	}

	for _, test := range tests {
		opener := &fakeOpener{
			raster: &fakeDataset{
				driver: test.driver,
				files:  test.files,
				proj:   geo.Proj4WGS84,
				gt:     [6]float64{0, 1, 0, 0, 0, -1},
				width:  10,
				height: 10,
				bands:  []*fakeBand{{id: 1, statsErr: errors.New("pixel read failed")}},
			},
		}

		path := writeTestFile(t, "stats.dat", "binary")
		d := newTestDigester(opener)

		_, err := d.Digest(context.Background(), path)
		if KindOf(err) != KindExternalIO {
			t.Fatalf("%s: expected an external io error, actual %v", test.driver, err)
		}
		if !strings.Contains(err.Error(), test.hint) {
			t.Errorf("%s: unexpected error message: %v", test.driver, err)
		}
	}
}

func TestDigestRasterBadProjection(t *testing.T) {
	opener := &fakeOpener{
		raster: &fakeDataset{
			driver:  "GTiff",
			proj:    "",
			projErr: errors.New("cannot export srs"),
		},
	}

	path := writeTestFile(t, "noproj.tif", "binary")
	d := newTestDigester(opener)

	_, err := d.Digest(context.Background(), path)
	if KindOf(err) != KindInvalidFormat {
		t.Fatalf("expected an invalid format error, actual %v", err)
	}
	if !strings.Contains(err.Error(), "error converting srs to proj4") {
		t.Errorf("unexpected error message: %v", err)
	}
}
