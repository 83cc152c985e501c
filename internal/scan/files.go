// Package scan builds a gallery dataset from a directory tree whose
// first-level sub-directories are named after sections.
package scan

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"fygallery/internal/catalog"
)

// Directory is a catalog.Source backed by a directory tree.
//
//	root/
//	  Engagement/eng1.jpg
//	  Outdoor/trip/out1.png
type Directory struct {
	Root   string
	Logger *slog.Logger
}

// Records implements catalog.Source.
func (d Directory) Records() ([]catalog.ImageRecord, error) {
	return Run(d.Root, d.Logger)
}

// Run walks root and returns one record per image file, in lexical path order.
// Images outside a known section directory are skipped.
func Run(root string, logger *slog.Logger) ([]catalog.ImageRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	var records []catalog.ImageRecord
	ids := make(map[string]bool)

	visit := func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug("scan: skipping unreadable path", "path", p, "err", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || !IsImage(p) {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() == 0 {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 2 {
			logger.Debug("scan: image outside a section directory", "path", p)
			return nil
		}
		section, err := catalog.ParseSection(parts[0])
		if err != nil {
			logger.Debug("scan: skipping image in unknown section", "path", p, "section", parts[0])
			return nil
		}

		records = append(records, catalog.ImageRecord{
			ID:       uniqueID(ids, strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))),
			Location: p,
			Section:  section,
		})
		return nil
	}

	if err := filepath.WalkDir(root, visit); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return catalog.Validate(records)
}

func uniqueID(seen map[string]bool, stem string) string {
	id := stem
	for n := 2; seen[id]; n++ {
		id = fmt.Sprintf("%s-%d", stem, n)
	}
	seen[id] = true
	return id
}

// IsImage checks if a file has a decodable image extension.
func IsImage(n string) bool {
	switch strings.ToLower(filepath.Ext(n)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	default:
		return false
	}
}
