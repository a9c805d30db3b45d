// Command tmxinfo parses a TMX map and prints its document model.
//
//	tmxinfo [-format yaml|json] [-resources dir] [-tiles] [-watch] [-v] map.tmx
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/adm87/tmx"
	"github.com/adm87/tmx/internal/watch"
)

type options struct {
	format    string
	resources string
	tiles     bool
	watch     bool
	verbose   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.format, "format", "yaml", "output format: yaml or json")
	flag.StringVar(&opts.resources, "resources", "", "directory used to resolve sources when the map path has no directory")
	flag.BoolVar(&opts.tiles, "tiles", false, "include layer GID arrays in the output")
	flag.BoolVar(&opts.watch, "watch", false, "re-parse whenever a map or tileset in the map's directory changes")
	flag.BoolVar(&opts.verbose, "v", false, "log diagnostics for recoverable problems")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tmxinfo [flags] map.tmx")
		flag.PrintDefaults()
		os.Exit(2)
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(flag.Arg(0), opts, log, os.Stdout); err != nil {
		log.Error("Failed to parse map", zap.String("file", flag.Arg(0)), zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}

func run(filename string, opts options, log *zap.Logger, out io.Writer) error {
	if err := dump(filename, opts, log, out); err != nil {
		if !opts.watch {
			return err
		}
		log.Error("Failed to parse map", zap.String("file", filename), zap.Error(err))
	}
	if !opts.watch {
		return nil
	}

	w, err := watch.NewWatcher(filepath.Dir(filename))
	if err != nil {
		return err
	}
	defer w.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.Info("Map changed, re-parsing", zap.String("changed", name))
			if err := dump(filename, opts, log, out); err != nil {
				log.Error("Failed to parse map", zap.String("file", filename), zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watch error", zap.Error(err))
		case <-interrupt:
			return nil
		}
	}
}

func dump(filename string, opts options, log *zap.Logger, out io.Writer) error {
	m, err := tmx.ParseFile(filename, tmx.WithLogger(log), tmx.WithResourcePath(opts.resources))
	if err != nil {
		return err
	}

	if !opts.tiles {
		for i := range m.Layers {
			m.Layers[i].Tiles = nil
		}
	}

	return encode(m, opts.format, out)
}

var errUnknownFormat = errors.New("unknown output format")

func encode(m *tmx.Map, format string, out io.Writer) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}
