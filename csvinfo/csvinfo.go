// Package csvinfo inspects delimited-text geodata and reports the
// spatial extent plus a field-name to type-tag mapping. Geometry
// columns are autodetected the way mapnik does: lat/lon column pairs,
// WKT columns and GeoJSON columns, with ',', ';', '\t' and '|' as
// candidate delimiters.
package csvinfo

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

type Info struct {
	Extent orb.Bound
	Fields map[string]string
}

var delimiters = []rune{',', '\t', ';', '|'}

var lonNames = map[string]bool{"lon": true, "lng": true, "long": true, "longitude": true, "x": true}
var latNames = map[string]bool{"lat": true, "latitude": true, "y": true}
var wktNames = map[string]bool{"wkt": true, "geom": true, "geometry": true}
var geojsonNames = map[string]bool{"geojson": true}

type geomColumns struct {
	lon     int
	lat     int
	wkt     int
	geojson int
}

// Inspect reads the whole file and returns its extent and field types.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func Read(r io.Reader) (*Info, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	header, delim, err := sniffDelimiter(raw)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(strings.NewReader(string(raw)))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %v", err)
	}

	cols := detectGeometry(header)
	if cols == nil {
		return nil, fmt.Errorf("no geometry columns detected among [%s]", strings.Join(header, ", "))
	}

	numeric := make([]bool, len(header))
	for i := range numeric {
		numeric[i] = true
	}

	var extent orb.Bound
	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %v", rows+2, err)
		}
		if len(rec) == 0 {
			continue
		}

		b, err := rowBound(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %v", rows+2, err)
		}
		if rows == 0 {
			extent = b
		} else {
			extent = extent.Union(b)
		}

		for i, v := range rec {
			if i >= len(numeric) || v == "" {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric[i] = false
			}
		}
		rows++
	}

	if rows == 0 {
		return nil, fmt.Errorf("no data rows")
	}

	fields := make(map[string]string, len(header))
	for i, name := range header {
		if numeric[i] {
			fields[name] = "Number"
		} else {
			fields[name] = "String"
		}
	}

	return &Info{Extent: extent, Fields: fields}, nil
}

// sniffDelimiter picks the candidate delimiter splitting the first line
// into the most columns.
func sniffDelimiter(raw []byte) ([]string, rune, error) {
	line := string(raw)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	if line == "" {
		return nil, 0, fmt.Errorf("empty file")
	}

	best := delimiters[0]
	bestCount := 1
	for _, d := range delimiters {
		cr := csv.NewReader(strings.NewReader(line))
		cr.Comma = d
		cr.LazyQuotes = true
		rec, err := cr.Read()
		if err != nil {
			continue
		}
		if len(rec) > bestCount {
			best = d
			bestCount = len(rec)
		}
	}
	if bestCount < 2 {
		// A single column can still hold WKT or GeoJSON.
		cr := csv.NewReader(strings.NewReader(line))
		cr.Comma = best
		cr.LazyQuotes = true
		rec, err := cr.Read()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to parse header: %v", err)
		}
		return normalizeHeader(rec), best, nil
	}

	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = best
	cr.LazyQuotes = true
	rec, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse header: %v", err)
	}
	return normalizeHeader(rec), best, nil
}

func normalizeHeader(rec []string) []string {
	out := make([]string, len(rec))
	for i, h := range rec {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}

func detectGeometry(header []string) *geomColumns {
	cols := &geomColumns{lon: -1, lat: -1, wkt: -1, geojson: -1}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case lonNames[name] && cols.lon < 0:
			cols.lon = i
		case latNames[name] && cols.lat < 0:
			cols.lat = i
		case wktNames[name] && cols.wkt < 0:
			cols.wkt = i
		case geojsonNames[name] && cols.geojson < 0:
			cols.geojson = i
		}
	}

	if cols.lon >= 0 && cols.lat >= 0 {
		return cols
	}
	if cols.wkt >= 0 || cols.geojson >= 0 {
		return cols
	}
	return nil
}

func rowBound(rec []string, cols *geomColumns) (orb.Bound, error) {
	if cols.lon >= 0 && cols.lat >= 0 {
		if cols.lon >= len(rec) || cols.lat >= len(rec) {
			return orb.Bound{}, fmt.Errorf("missing coordinate columns")
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(rec[cols.lon]), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bad longitude %q", rec[cols.lon])
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[cols.lat]), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bad latitude %q", rec[cols.lat])
		}
		pt := orb.Point{lon, lat}
		return orb.Bound{Min: pt, Max: pt}, nil
	}

	if cols.wkt >= 0 {
		if cols.wkt >= len(rec) {
			return orb.Bound{}, fmt.Errorf("missing wkt column")
		}
		g, err := wkt.Unmarshal(strings.TrimSpace(rec[cols.wkt]))
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bad wkt geometry: %v", err)
		}
		return g.Bound(), nil
	}

	if cols.geojson >= len(rec) {
		return orb.Bound{}, fmt.Errorf("missing geojson column")
	}
	g, err := geojson.UnmarshalGeometry([]byte(rec[cols.geojson]))
	if err != nil {
		return orb.Bound{}, fmt.Errorf("bad geojson geometry: %v", err)
	}
	return g.Geometry().Bound(), nil
}
