package digest

import (
	"path/filepath"

	"github.com/nci/geodigest/csvinfo"
	"github.com/nci/geodigest/geo"
	"github.com/nci/geodigest/zoom"
)

var csvExtensions = map[string]bool{".csv": true, ".txt": true, ".tsv": true}

// csvDigestor claims delimited-text files by extension and delegates
// the actual sniffing to the tabular collaborator.
type csvDigestor struct {
	maxFilesize int64
	sniff       func(string) (*csvinfo.Info, error)
}

func (c *csvDigestor) Name() string {
	return "csv"
}

func (c *csvDigestor) Digest(path string, meta *Metadata) (bool, error) {
	if !csvExtensions[filepath.Ext(path)] {
		return false, nil
	}

	// Oversized delimited-text geodata is a misuse, not a parse failure.
	if meta.Filesize > c.maxFilesize {
		return true, invalidf("csv filesize is greater than %dMB - you should use a more efficient data format like sqlite, postgis or a shapefile to render this data", c.maxFilesize/(1024*1024))
	}

	info, err := c.sniff(path)
	if err != nil {
		return true, externalf("error reading csv %s: %v", path, err)
	}

	meta.DSType = "csv"
	meta.Driver = "CSV"
	meta.Projection = geo.Proj4WGS84
	meta.setExtent(info.Extent)
	meta.JSON = &VectorJSON{
		VectorLayers: []VectorLayer{{
			ID:      filepath.Base(path),
			MinZoom: 0,
			MaxZoom: zoom.MaxZoom,
			Fields:  info.Fields,
		}},
	}

	return true, nil
}
