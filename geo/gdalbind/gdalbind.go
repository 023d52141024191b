// Package gdalbind implements the geo interfaces on top of GDAL/OGR.
package gdalbind

// #include <stdio.h>
// #include <stdlib.h>
// #include "gdal.h"
// #include "ogr_api.h"
// #include "ogr_srs_api.h"
// #include "cpl_string.h"
// #include "cpl_conv.h"
// #cgo pkg-config: gdal
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/paulmach/orb"

	"github.com/nci/geodigest/geo"
)

func init() {
	C.GDALAllRegister()
}

type Opener struct{}

// Open opens path read-only, restricted to raster or vector drivers
// according to mode. A GDAL open failure is returned verbatim; callers
// use it as a "not this format" signal.
func (Opener) Open(path string, mode geo.OpenMode) (geo.Dataset, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	flags := C.uint(C.GDAL_OF_READONLY)
	if mode == geo.RasterMode {
		flags |= C.GDAL_OF_RASTER
	} else {
		flags |= C.GDAL_OF_VECTOR
	}

	hDS := C.GDALOpenEx(cPath, flags, nil, nil, nil)
	if hDS == nil {
		return nil, fmt.Errorf("GDAL could not open dataset %s: %v", path, C.GoString(C.CPLGetLastErrorMsg()))
	}

	return &dataset{h: hDS}, nil
}

type dataset struct {
	h C.GDALDatasetH
}

func (d *dataset) Driver() string {
	hDriver := C.GDALGetDatasetDriver(d.h)
	return C.GoString(C.GDALGetDriverShortName(hDriver))
}

func (d *dataset) FileList() []string {
	papszFiles := C.GDALGetFileList(d.h)
	if papszFiles == nil {
		return nil
	}
	defer C.CSLDestroy(papszFiles)

	n := int(C.CSLCount(papszFiles))
	files := make([]string, n)
	for i := 0; i < n; i++ {
		files[i] = C.GoString(C.CSLGetField(papszFiles, C.int(i)))
	}
	return files
}

func (d *dataset) Projection() (string, error) {
	wkt := C.GDALGetProjectionRef(d.h)
	if wkt != nil && C.GoString(wkt) != "" {
		return wktToProj4(C.GoString(wkt))
	}

	// Vector datasets carry the SRS per layer.
	for i := 0; i < d.LayerCount(); i++ {
		proj, err := d.Layer(i).Projection()
		if err == nil && proj != "" {
			return proj, nil
		}
	}
	return "", fmt.Errorf("dataset has no spatial reference")
}

func (d *dataset) GeoTransform() [6]float64 {
	var gt [6]C.double
	C.GDALGetGeoTransform(d.h, &gt[0])

	var out [6]float64
	for i, v := range gt {
		out[i] = float64(v)
	}
	return out
}

func (d *dataset) RasterSize() (int, int) {
	return int(C.GDALGetRasterXSize(d.h)), int(C.GDALGetRasterYSize(d.h))
}

func (d *dataset) LinearUnits() float64 {
	hSRS, err := d.srs()
	if err != nil {
		return 0
	}
	defer C.OSRDestroySpatialReference(hSRS)
	return float64(C.OSRGetLinearUnits(hSRS, nil))
}

func (d *dataset) AngularUnits() float64 {
	hSRS, err := d.srs()
	if err != nil {
		return 0
	}
	defer C.OSRDestroySpatialReference(hSRS)
	return float64(C.OSRGetAngularUnits(hSRS, nil))
}

func (d *dataset) srs() (C.OGRSpatialReferenceH, error) {
	wkt := C.GDALGetProjectionRef(d.h)
	if wkt == nil {
		return nil, fmt.Errorf("dataset has no spatial reference")
	}
	return newSRS(C.GoString(wkt))
}

func (d *dataset) BandCount() int {
	return int(C.GDALGetRasterCount(d.h))
}

func (d *dataset) Band(i int) (geo.Band, error) {
	hBand := C.GDALGetRasterBand(d.h, C.int(i))
	if hBand == nil {
		return nil, fmt.Errorf("no raster band %d", i)
	}
	return &band{h: hBand, id: i}, nil
}

func (d *dataset) LayerCount() int {
	return int(C.GDALDatasetGetLayerCount(d.h))
}

func (d *dataset) Layer(i int) geo.Layer {
	return &layer{h: C.GDALDatasetGetLayer(d.h, C.int(i))}
}

func (d *dataset) Close() error {
	C.GDALClose(d.h)
	return nil
}

type band struct {
	h  C.GDALRasterBandH
	id int
}

func (b *band) Statistics() (geo.BandStats, error) {
	var min, max, mean, stdDev C.double
	cErr := C.GDALGetRasterStatistics(b.h, C.int(0), C.int(1), &min, &max, &mean, &stdDev)
	if cErr != C.CE_None {
		return geo.BandStats{}, fmt.Errorf("%v", C.GoString(C.CPLGetLastErrorMsg()))
	}
	return geo.BandStats{
		Min:    float64(min),
		Max:    float64(max),
		Mean:   float64(mean),
		StdDev: float64(stdDev),
	}, nil
}

func (b *band) Scale() float64 {
	var success C.int
	scale := C.GDALGetRasterScale(b.h, &success)
	if success == 0 {
		return 1
	}
	return float64(scale)
}

func (b *band) UnitType() string {
	return C.GoString(C.GDALGetRasterUnitType(b.h))
}

func (b *band) DataType() string {
	return C.GoString(C.GDALGetDataTypeName(C.GDALGetRasterDataType(b.h)))
}

func (b *band) CategoryNames() []string {
	papszNames := C.GDALGetRasterCategoryNames(b.h)
	if papszNames == nil {
		return nil
	}

	n := int(C.CSLCount(papszNames))
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = C.GoString(C.CSLGetField(papszNames, C.int(i)))
	}
	return names
}

func (b *band) HasArbitraryOverviews() bool {
	return C.GDALHasArbitraryOverviews(b.h) != 0
}

func (b *band) Overviews() []geo.OverviewInfo {
	n := int(C.GDALGetOverviewCount(b.h))
	overviews := make([]geo.OverviewInfo, 0, n)
	for i := 0; i < n; i++ {
		hOvr := C.GDALGetOverview(b.h, C.int(i))
		if hOvr == nil {
			continue
		}
		overviews = append(overviews, geo.OverviewInfo{
			Size: [2]int{int(C.GDALGetRasterBandXSize(hOvr)), int(C.GDALGetRasterBandYSize(hOvr))},
		})
	}
	return overviews
}

func (b *band) NoData() *float64 {
	var success C.int
	nodata := C.GDALGetRasterNoDataValue(b.h, &success)
	if success == 0 {
		return nil
	}
	v := float64(nodata)
	return &v
}

func (b *band) ID() int {
	return b.id
}

func (b *band) BlockSize() [2]int {
	var x, y C.int
	C.GDALGetBlockSize(b.h, &x, &y)
	return [2]int{int(x), int(y)}
}

func (b *band) ColorInterpretation() string {
	return C.GoString(C.GDALGetColorInterpretationName(C.GDALGetRasterColorInterpretation(b.h)))
}

type layer struct {
	h C.OGRLayerH
}

func (l *layer) Name() string {
	return C.GoString(C.OGR_L_GetName(l.h))
}

func (l *layer) Projection() (string, error) {
	hSRS := C.OGR_L_GetSpatialRef(l.h)
	if hSRS == nil {
		return "", nil
	}

	var proj4C *C.char
	if C.OSRExportToProj4(hSRS, &proj4C) != C.OGRERR_NONE {
		return "", fmt.Errorf("failed to export layer srs to proj4")
	}
	defer C.CPLFree(unsafe.Pointer(proj4C))
	return C.GoString(proj4C), nil
}

func (l *layer) FeatureCount() int {
	return int(C.OGR_L_GetFeatureCount(l.h, C.int(1)))
}

func (l *layer) Fields() []geo.Field {
	hDefn := C.OGR_L_GetLayerDefn(l.h)
	n := int(C.OGR_FD_GetFieldCount(hDefn))

	fields := make([]geo.Field, n)
	for i := 0; i < n; i++ {
		hField := C.OGR_FD_GetFieldDefn(hDefn, C.int(i))
		fields[i] = geo.Field{
			Name: C.GoString(C.OGR_Fld_GetNameRef(hField)),
			Type: geo.FieldType(int(C.OGR_Fld_GetType(hField))),
		}
	}
	return fields
}

func (l *layer) Extent(force bool) (orb.Bound, error) {
	var env C.OGREnvelope
	bForce := C.int(0)
	if force {
		bForce = C.int(1)
	}
	if C.OGR_L_GetExtent(l.h, &env, bForce) != C.OGRERR_NONE {
		return orb.Bound{}, fmt.Errorf("failed to compute layer extent")
	}
	return orb.Bound{
		Min: orb.Point{float64(env.MinX), float64(env.MinY)},
		Max: orb.Point{float64(env.MaxX), float64(env.MaxY)},
	}, nil
}

// newSRS parses any user-input SRS form (proj4, WKT, EPSG:n). The
// caller owns the returned handle.
func newSRS(def string) (C.OGRSpatialReferenceH, error) {
	hSRS := C.OSRNewSpatialReference(nil)

	defC := C.CString(def)
	defer C.free(unsafe.Pointer(defC))
	if C.OSRSetFromUserInput(hSRS, defC) != C.OGRERR_NONE {
		C.OSRDestroySpatialReference(hSRS)
		return nil, fmt.Errorf("failed to parse srs %q", def)
	}
	return hSRS, nil
}

func wktToProj4(wkt string) (string, error) {
	hSRS, err := newSRS(wkt)
	if err != nil {
		return "", err
	}
	defer C.OSRDestroySpatialReference(hSRS)

	var proj4C *C.char
	if C.OSRExportToProj4(hSRS, &proj4C) != C.OGRERR_NONE {
		return "", fmt.Errorf("failed to export srs to proj4")
	}
	defer C.CPLFree(unsafe.Pointer(proj4C))
	return C.GoString(proj4C), nil
}

// TransformPoints re-projects points between two SRS definitions. It
// satisfies geo.PointTransform.
func TransformPoints(srcProj, dstProj string, pts []orb.Point) ([]orb.Point, error) {
	if len(pts) == 0 {
		return nil, nil
	}

	hSrc, err := newSRS(srcProj)
	if err != nil {
		return nil, err
	}
	defer C.OSRDestroySpatialReference(hSrc)

	hDst, err := newSRS(dstProj)
	if err != nil {
		return nil, err
	}
	defer C.OSRDestroySpatialReference(hDst)

	hCT := C.OCTNewCoordinateTransformation(hSrc, hDst)
	if hCT == nil {
		return nil, fmt.Errorf("failed to create coordinate transformation: %v", C.GoString(C.CPLGetLastErrorMsg()))
	}
	defer C.OCTDestroyCoordinateTransformation(hCT)

	xs := make([]C.double, len(pts))
	ys := make([]C.double, len(pts))
	for i, pt := range pts {
		xs[i] = C.double(pt[0])
		ys[i] = C.double(pt[1])
	}

	if C.OCTTransform(hCT, C.int(len(pts)), &xs[0], &ys[0], nil) == 0 {
		return nil, fmt.Errorf("coordinate transformation failed")
	}

	out := make([]orb.Point, len(pts))
	for i := range out {
		out[i] = orb.Point{float64(xs[i]), float64(ys[i])}
	}
	return out, nil
}
