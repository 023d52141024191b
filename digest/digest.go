// Package digest inspects a geospatial data file and produces one
// normalized metadata record: projection, WGS84 extent, schema or
// raster band details and a recommended min/max rendering zoom range.
//
// Format detection is a sequential trial over digestors in a fixed
// priority order (tabular, raster, vector); the first digestor that
// claims the file ends the search.
package digest

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/context"

	"github.com/nci/geodigest/csvinfo"
	"github.com/nci/geodigest/geo"
	"github.com/nci/geodigest/utils"
	"github.com/nci/geodigest/zoom"
)

// digestor is one format-recognition strategy. claimed=false means
// "not my format, try the next one"; claimed=true with a non-nil error
// means the file belongs to this format but is unusable.
type digestor interface {
	Name() string
	Digest(path string, meta *Metadata) (claimed bool, err error)
}

type Digester struct {
	cfg       *utils.Config
	transform geo.PointTransform
	digestors []digestor
}

// New builds a Digester around the injected I/O collaborators. A nil
// config selects the defaults and a nil sniffer selects csvinfo.
func New(cfg *utils.Config, opener geo.Opener, transform geo.PointTransform, sniff func(string) (*csvinfo.Info, error)) *Digester {
	if cfg == nil {
		cfg = utils.DefaultConfig()
	}
	if sniff == nil {
		sniff = csvinfo.Inspect
	}

	return &Digester{
		cfg:       cfg,
		transform: transform,
		digestors: []digestor{
			&csvDigestor{maxFilesize: cfg.CSVMaxFilesize, sniff: sniff},
			&gdalDigestor{opener: opener, transform: transform},
			&ogrDigestor{opener: opener, transform: transform},
		},
	}
}

// Digest runs the full pipeline for one file. On failure the returned
// error carries a Kind and no record is returned.
func (d *Digester) Digest(ctx context.Context, path string) (*Metadata, error) {
	meta := &Metadata{}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, filesystemf("error getting stats from file %s: %v", path, err)
	}
	meta.Filesize = fi.Size()

	found := false
	for _, dg := range d.digestors {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		claimed, err := dg.Digest(path, meta)
		if err != nil {
			return nil, err
		}
		if claimed {
			if d.cfg.Verbose {
				log.Printf("digest: %s claimed by %s digestor", path, dg.Name())
			}
			found = true
			break
		}
	}

	if !found {
		return nil, unsupportedf("unable to detect spatial data in %s", path)
	}

	if err := d.postDigest(path, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// postDigest derives the filetype, name and layer defaults and runs
// the zoom estimator matching the digested data kind.
func (d *Digester) postDigest(path string, meta *Metadata) error {
	ext := filepath.Ext(path)

	fileType, found := d.cfg.Extension(meta.Driver)
	if !found {
		// Readable file without a canonical extension mapping; keep
		// whatever extension it came with.
		fileType = ext
	}
	meta.FileType = fileType

	meta.FileName = strings.TrimSuffix(filepath.Base(path), ext)
	if meta.FileType == ".geojson" {
		meta.FileName = strings.Replace(meta.FileName, ".geo", "", 1)
	}

	if len(meta.Layers) == 0 {
		meta.Layers = []string{meta.FileName}
	}

	var minzoom, maxzoom int
	var err error
	if meta.Raster != nil {
		minzoom, maxzoom, err = zoom.Raster(meta.Raster.PixelSize, meta.Center, meta.Projection, d.transform)
	} else {
		minzoom, maxzoom, err = zoom.Vector(meta.Filesize, meta.bound())
	}
	if err != nil {
		return zoomf("%v", err)
	}
	meta.MinZoom = minzoom
	meta.MaxZoom = maxzoom

	return nil
}
