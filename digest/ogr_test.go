package digest

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"golang.org/x/net/context"

	"github.com/nci/geodigest/geo"
)

func TestDigestVectorSkipsEmptyLayers(t *testing.T) {
	opener := &fakeOpener{
		vector: &fakeDataset{
			driver: "GPX",
			layers: []*fakeLayer{
				{
					name:   "waypoints",
					proj:   geo.Proj4WGS84,
					extent: orb.Bound{Min: orb.Point{-100, -50}, Max: orb.Point{100, 50}},
				},
				{
					name:     "tracks",
					proj:     geo.Proj4WGS84,
					features: 3,
					fields:   []geo.Field{{Name: "name", Type: geo.FieldString}},
					extent:   orb.Bound{Min: orb.Point{146, -42}, Max: orb.Point{147, -41}},
				},
			},
		},
	}

	path := writeTestFile(t, "hike.gpx", "<gpx/>")
	d := newTestDigester(opener)

	meta, err := d.Digest(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkInvariants(t, meta)

	if len(meta.Layers) != 1 || meta.Layers[0] != "tracks" {
		t.Errorf("expected the empty layer to be skipped, actual layers %v", meta.Layers)
	}
	if meta.Extent != [4]float64{146, -42, 147, -41} {
		t.Errorf("empty layer contributed to the extent: %v", meta.Extent)
	}
	if len(meta.JSON.VectorLayers) != 1 || meta.JSON.VectorLayers[0].ID != "tracks" {
		t.Errorf("unexpected vector layer schema: %+v", meta.JSON.VectorLayers)
	}
}

func TestDigestVectorUnsupportedFieldType(t *testing.T) {
	opener := &fakeOpener{
		vector: &fakeDataset{
			driver: "GeoJSON",
			layers: []*fakeLayer{{
				name:     "places",
				proj:     geo.Proj4WGS84,
				features: 1,
				fields: []geo.Field{
					{Name: "name", Type: geo.FieldString},
					{Name: "count", Type: geo.FieldInteger64},
				},
				extent: orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}},
			}},
		},
	}

	path := writeTestFile(t, "places.geojson", "{}")
	d := newTestDigester(opener)

	_, err := d.Digest(context.Background(), path)
	if KindOf(err) != KindInvalidFormat {
		t.Fatalf("expected an invalid format error, actual %v", err)
	}
	if !strings.Contains(err.Error(), `"count"`) || !strings.Contains(err.Error(), "unsupported type") {
		t.Errorf("error should name the offending field: %v", err)
	}
}

func TestDigestVectorFieldTypeMapping(t *testing.T) {
	fields := []geo.Field{
		{Name: "a", Type: geo.FieldInteger},
		{Name: "b", Type: geo.FieldIntegerList},
		{Name: "c", Type: geo.FieldReal},
		{Name: "d", Type: geo.FieldRealList},
		{Name: "e", Type: geo.FieldString},
		{Name: "f", Type: geo.FieldStringList},
		{Name: "g", Type: geo.FieldDate},
		{Name: "h", Type: geo.FieldTime},
		{Name: "i", Type: geo.FieldDateTime},
		{Name: "j", Type: geo.FieldBinary},
	}
	want := map[string]string{
		"a": "Integer", "b": "Integer[]", "c": "Double", "d": "Double[]",
		"e": "String", "f": "String[]", "g": "Date", "h": "Time",
		"i": "Datetime", "j": "Binary",
	}

	opener := &fakeOpener{
		vector: &fakeDataset{
			driver: "ESRI Shapefile",
			layers: []*fakeLayer{{
				name:     "my parcels",
				proj:     geo.Proj4WGS84,
				features: 5,
				fields:   fields,
				extent:   orb.Bound{Min: orb.Point{115, -35}, Max: orb.Point{116, -34}},
			}},
		},
	}

	path := writeTestFile(t, "parcels.shp", "binary")
	d := newTestDigester(opener)

	meta, err := d.Digest(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meta.DSType != "shape" {
		t.Errorf("expected dstype shape for the shapefile driver, actual %v", meta.DSType)
	}
	if meta.FileType != ".shp" {
		t.Errorf("unexpected filetype: %v", meta.FileType)
	}

	layer := meta.JSON.VectorLayers[0]
	if layer.ID != "my_parcels" {
		t.Errorf("expected spaces replaced by underscores, actual id %v", layer.ID)
	}
	for name, tag := range want {
		if layer.Fields[name] != tag {
			t.Errorf("field %s: expected %s, actual %s", name, tag, layer.Fields[name])
		}
	}
	if layer.MinZoom != 0 || layer.MaxZoom != 22 {
		t.Errorf("unexpected layer zoom defaults: (%v, %v)", layer.MinZoom, layer.MaxZoom)
	}
}

func TestDigestVectorSRSFromLaterLayer(t *testing.T) {
	opener := &fakeOpener{
		vector: &fakeDataset{
			driver: "KML",
			layers: []*fakeLayer{
				{
					name:     "unref",
					features: 1,
					extent:   orb.Bound{Min: orb.Point{5, 5}, Max: orb.Point{6, 6}},
				},
				{
					name:     "ref",
					proj:     geo.Proj4WGS84,
					features: 1,
					extent:   orb.Bound{Min: orb.Point{7, 7}, Max: orb.Point{8, 8}},
				},
			},
		},
	}

	path := writeTestFile(t, "tour.kml", "<kml/>")
	d := newTestDigester(opener)

	meta, err := d.Digest(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Projection != geo.Proj4WGS84 {
		t.Errorf("expected the srs of the first layer reporting one, actual %v", meta.Projection)
	}
	if meta.Extent != [4]float64{5, 5, 8, 8} {
		t.Errorf("expected the union of both layer extents, actual %v", meta.Extent)
	}
	if meta.FileType != ".kml" {
		t.Errorf("unexpected filetype: %v", meta.FileType)
	}
}

func TestDigestVectorNoSRS(t *testing.T) {
	opener := &fakeOpener{
		vector: &fakeDataset{
			driver: "GeoJSON",
			layers: []*fakeLayer{{name: "bare", features: 1}},
		},
	}

	path := writeTestFile(t, "bare.geojson", "{}")
	d := newTestDigester(opener)

	_, err := d.Digest(context.Background(), path)
	if KindOf(err) != KindInvalidFormat {
		t.Fatalf("expected an invalid format error, actual %v", err)
	}
	if !strings.Contains(err.Error(), "spatial reference") {
		t.Errorf("unexpected error message: %v", err)
	}
}
