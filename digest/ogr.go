package digest

import (
	"errors"
	"strings"

	"github.com/paulmach/orb"

	"github.com/nci/geodigest/geo"
	"github.com/nci/geodigest/zoom"
)

// ogrDigestor claims any file the I/O layer can open in vector mode.
type ogrDigestor struct {
	opener    geo.Opener
	transform geo.PointTransform
}

func (o *ogrDigestor) Name() string {
	return "ogr"
}

func (o *ogrDigestor) Digest(path string, meta *Metadata) (bool, error) {
	ds, err := o.opener.Open(path, geo.VectorMode)
	if err != nil {
		return false, nil
	}
	defer ds.Close()

	proj, err := datasetProjection(ds)
	if err != nil {
		return true, invalidf("error converting srs to proj4: %v", err)
	}

	var merged orb.Bound
	haveExtent := false
	var layerNames []string
	var layersMeta []VectorLayer

	for i := 0; i < ds.LayerCount(); i++ {
		layer := ds.Layer(i)

		if layer.FeatureCount() == 0 {
			continue // eg. an empty gpx waypoints layer
		}

		fields := make(map[string]string)
		for _, field := range layer.Fields() {
			tag, ok := field.Type.TypeTag()
			if !ok {
				return true, invalidf("field %q has unsupported type: %v", field.Name, field.Type)
			}
			fields[field.Name] = tag
		}

		layerProj := proj
		if p, err := layer.Projection(); err == nil && p != "" {
			layerProj = p
		}

		extent, err := layer.Extent(true)
		if err != nil {
			return true, invalidf("error getting extent: %v", err)
		}
		wgs84, err := geo.TransformBound(layerProj, geo.Proj4WGS84, extent, o.transform)
		if err != nil {
			return true, invalidf("error getting extent: %v", err)
		}
		if !haveExtent {
			merged = wgs84
			haveExtent = true
		} else {
			merged = merged.Union(wgs84)
		}

		layerNames = append(layerNames, layer.Name())
		layersMeta = append(layersMeta, VectorLayer{
			ID:      strings.Join(strings.Split(layer.Name(), " "), "_"),
			MinZoom: 0,
			MaxZoom: zoom.MaxZoom,
			Fields:  fields,
		})
	}

	if !haveExtent {
		return true, invalidf("no layers with features found in %s", path)
	}

	if ds.Driver() == "ESRI Shapefile" {
		meta.DSType = "shape"
	} else {
		meta.DSType = "ogr"
	}
	meta.Driver = ds.Driver()
	meta.Projection = proj
	meta.setExtent(merged)
	meta.JSON = &VectorJSON{VectorLayers: layersMeta}
	meta.Layers = layerNames

	return true, nil
}

// datasetProjection finds the dataset SRS from the first layer that
// reports one; layers are not required to carry an SRS at index 0.
func datasetProjection(ds geo.Dataset) (string, error) {
	var lastErr error
	for i := 0; i < ds.LayerCount(); i++ {
		proj, err := ds.Layer(i).Projection()
		if err != nil {
			lastErr = err
			continue
		}
		if proj != "" {
			return proj, nil
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", errNoSRS
}

var errNoSRS = errors.New("no layer reports a spatial reference")
