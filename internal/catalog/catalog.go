// Package catalog scans a data directory for dataset descriptors.
//
// Every dataset lives in its own directory holding an index.json file. The
// catalog is built once and never changes afterwards; descriptors are handed
// out by pointer so callers can compare them by identity.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cogentcore.org/core/base/ordmap"
)

const IndexFile = "index.json"

var ErrUnknownDataset = errors.New("catalog: unknown dataset")

type Array struct {
	Name  string     `json:"name"`
	Label string     `json:"label,omitempty"`
	Range [2]float64 `json:"range"`
}

type Data struct {
	File   string     `json:"file"`
	Arrays []Array    `json:"arrays"`
	Bounds [6]float64 `json:"bounds"`
	Time   []float64  `json:"time,omitempty"`
}

// Descriptor is the static metadata of one dataset.
type Descriptor struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	AutoApply   bool     `json:"autoApply,omitempty"`
	Thumbnails  []string `json:"thumbnails,omitempty"`
	Data        Data     `json:"data"`
}

// Array returns the declared array named field.
func (d *Descriptor) Array(field string) (Array, bool) {
	for _, a := range d.Data.Arrays {
		if a.Name == field {
			return a, true
		}
	}
	return Array{}, false
}

// Center returns the midpoint of the declared bounds.
func (d *Descriptor) Center() [3]float64 {
	b := d.Data.Bounds
	return [3]float64{(b[0] + b[1]) / 2, (b[2] + b[3]) / 2, (b[4] + b[5]) / 2}
}

type entry struct {
	dir  string
	meta *Descriptor
}

type Catalog struct {
	baseDir string
	entries *ordmap.Map[string, entry]
}

// Scan reads every <baseDir>/<dir>/index.json. Directories without an index
// are ignored; unreadable or malformed indexes are logged and skipped.
func Scan(baseDir string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dirs, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("catalog: scan %s: %w", baseDir, err)
	}

	c := &Catalog{baseDir: baseDir, entries: ordmap.New[string, entry]()}
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		dir := filepath.Join(baseDir, d.Name())
		indexPath := filepath.Join(dir, IndexFile)
		data, err := os.ReadFile(indexPath)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("skipping dataset", "path", indexPath, "err", err)
			}
			continue
		}

		var meta Descriptor
		if err := json.Unmarshal(data, &meta); err != nil {
			logger.Warn("skipping dataset", "path", indexPath, "err", err)
			continue
		}
		if meta.Name == "" {
			logger.Warn("skipping dataset without name", "path", indexPath)
			continue
		}
		if _, dup := c.entries.ValueByKeyTry(meta.Name); dup {
			logger.Warn("skipping duplicate dataset", "name", meta.Name, "path", indexPath)
			continue
		}
		c.entries.Add(meta.Name, entry{dir: dir, meta: &meta})
	}
	logger.Info("catalog scanned", "dir", baseDir, "datasets", c.entries.Len())
	return c, nil
}

func (c *Catalog) BaseDir() string { return c.baseDir }

func (c *Catalog) Len() int { return c.entries.Len() }

// List returns descriptors in scan order.
func (c *Catalog) List() []*Descriptor {
	out := make([]*Descriptor, 0, c.entries.Len())
	for _, kv := range c.entries.Order {
		out = append(out, kv.Value.meta)
	}
	return out
}

func (c *Catalog) Get(name string) (*Descriptor, error) {
	e, ok := c.entries.ValueByKeyTry(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}
	return e.meta, nil
}

// DataPath returns the absolute path of the dataset's data file.
func (c *Catalog) DataPath(name string) (string, error) {
	e, ok := c.entries.ValueByKeyTry(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}
	return filepath.Join(e.dir, e.meta.Data.File), nil
}

// Dir returns the directory holding the dataset's index.
func (c *Catalog) Dir(name string) (string, error) {
	e, ok := c.entries.ValueByKeyTry(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}
	return e.dir, nil
}
