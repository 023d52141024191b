package geo

import (
	"github.com/paulmach/orb"
)

// Proj4WGS84 is the proj4 form of EPSG:4326 as exported by GDAL.
const Proj4WGS84 = "+proj=longlat +datum=WGS84 +no_defs"

// Proj4Mercator is the proj4 form of EPSG:3857 (spherical mercator).
const Proj4Mercator = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +nadgrids=@null +wktext +no_defs"

type OpenMode int

const (
	RasterMode OpenMode = iota
	VectorMode
)

// Opener opens a dataset in raster or vector mode. An open error means
// the file cannot be interpreted in that mode; callers treat it as a
// "not this format" signal rather than a failure.
type Opener interface {
	Open(path string, mode OpenMode) (Dataset, error)
}

// Dataset is an opaque handle onto one geospatial source. Raster
// accessors are only meaningful for datasets opened in RasterMode and
// layer accessors for VectorMode.
type Dataset interface {
	Driver() string
	FileList() []string

	// Projection exports the dataset SRS as a proj4 string. For vector
	// datasets the SRS comes from the first layer that reports one.
	Projection() (string, error)

	GeoTransform() [6]float64
	RasterSize() (x, y int)
	LinearUnits() float64
	AngularUnits() float64
	BandCount() int
	Band(i int) (Band, error)

	LayerCount() int
	Layer(i int) Layer

	Close() error
}

type BandStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

type OverviewInfo struct {
	Size [2]int `json:"size"`
}

type Band interface {
	// Statistics forces computation of exact band statistics. A failure
	// here usually means the underlying pixel sources are unreadable.
	Statistics() (BandStats, error)
	Scale() float64
	UnitType() string
	DataType() string
	CategoryNames() []string
	HasArbitraryOverviews() bool
	Overviews() []OverviewInfo
	NoData() *float64
	ID() int
	BlockSize() [2]int
	ColorInterpretation() string
}

type Layer interface {
	Name() string
	Projection() (string, error)
	FeatureCount() int
	Fields() []Field
	// Extent returns the layer envelope in the layer's own SRS,
	// scanning features when force is set and no fast answer exists.
	Extent(force bool) (orb.Bound, error)
}

type Field struct {
	Name string
	Type FieldType
}

// FieldType enumerates attribute field types using the OGR OFT codes.
type FieldType int

const (
	FieldInteger FieldType = iota
	FieldIntegerList
	FieldReal
	FieldRealList
	FieldString
	FieldStringList
	FieldWideString
	FieldWideStringList
	FieldBinary
	FieldDate
	FieldTime
	FieldDateTime
	FieldInteger64
	FieldInteger64List
)

var fieldTypeTags = map[FieldType]string{
	FieldInteger:     "Integer",
	FieldIntegerList: "Integer[]",
	FieldReal:        "Double",
	FieldRealList:    "Double[]",
	FieldString:      "String",
	FieldStringList:  "String[]",
	FieldDate:        "Date",
	FieldTime:        "Time",
	FieldDateTime:    "Datetime",
	FieldBinary:      "Binary",
}

// TypeTag converts the field type into the fixed schema vocabulary
// understood by the rendering pipeline. The second return is false for
// types with no mapping.
func (t FieldType) TypeTag() (string, bool) {
	tag, ok := fieldTypeTags[t]
	return tag, ok
}

func (t FieldType) String() string {
	if tag, ok := fieldTypeTags[t]; ok {
		return tag
	}
	switch t {
	case FieldWideString:
		return "WideString"
	case FieldWideStringList:
		return "WideString[]"
	case FieldInteger64:
		return "Integer64"
	case FieldInteger64List:
		return "Integer64[]"
	}
	return "Unknown"
}

// PointTransform re-projects points from srcProj to dstProj, both given
// as proj4 strings. Implementations wrap the external coordinate
// transform capability; tests inject scripted ones.
type PointTransform func(srcProj, dstProj string, pts []orb.Point) ([]orb.Point, error)

// TransformBound re-projects an envelope by transforming its four
// corners and taking the axis-aligned bound of the result.
func TransformBound(srcProj, dstProj string, b orb.Bound, tr PointTransform) (orb.Bound, error) {
	corners := []orb.Point{
		{b.Min[0], b.Min[1]},
		{b.Min[0], b.Max[1]},
		{b.Max[0], b.Max[1]},
		{b.Max[0], b.Min[1]},
	}

	out, err := tr(srcProj, dstProj, corners)
	if err != nil {
		return orb.Bound{}, err
	}

	res := orb.Bound{Min: out[0], Max: out[0]}
	for _, pt := range out[1:] {
		res = res.Extend(pt)
	}
	return res, nil
}
