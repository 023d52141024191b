package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/nci/geodigest/digest"
	"github.com/nci/geodigest/geo/gdalbind"
	"github.com/nci/geodigest/metrics"
	"github.com/nci/geodigest/utils"
)

func ensure(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configFile := flag.String("config", "", "YAML config file")
	verbose := flag.Bool("verbose", false, "verbose logging")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatal("Please provide one or more file paths, or '-' for reading a path from stdin")
	}

	if len(paths) == 1 && paths[0] == "-" {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Scan()
		paths[0] = scanner.Text()
	}

	cfg := utils.DefaultConfig()
	if len(*configFile) > 0 {
		var err error
		cfg, err = utils.LoadConfig(*configFile)
		ensure(err)
	}
	if *verbose {
		cfg.Verbose = true
	}

	var logger metrics.Logger
	if len(cfg.MetricsLogDir) > 0 {
		logger = metrics.NewFileLogger(cfg.MetricsLogDir, 0, 0, cfg.Verbose)
	} else if cfg.Verbose {
		logger = metrics.NewStdoutLogger()
	}

	digester := digest.New(cfg, gdalbind.Opener{}, gdalbind.TransformPoints, nil)
	ctx := context.Background()

	if len(paths) == 1 {
		meta, err := digester.Digest(ctx, paths[0])
		ensure(err)

		out, err := json.Marshal(meta)
		ensure(err)

		_, err = os.Stdout.Write(out)
		ensure(err)
		return
	}

	pool := digest.NewPool(digester, cfg.PoolSize, logger)
	results := pool.DigestAll(ctx, paths)

	records := make([]*digest.Metadata, 0, len(results))
	failed := false
	for _, res := range results {
		if res.Err != nil {
			log.Printf("%s: %v", res.Path, res.Err)
			failed = true
			continue
		}
		records = append(records, res.Meta)
	}

	out, err := json.Marshal(records)
	ensure(err)

	_, err = os.Stdout.Write(out)
	ensure(err)

	if failed {
		os.Exit(1)
	}
}
