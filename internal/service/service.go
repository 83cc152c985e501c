package service

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"fygallery/internal/catalog"
	"fygallery/internal/config"
	"fygallery/internal/playlist"
	"fygallery/internal/scan"
)

// CatalogStore abstracts the catalog DB for easier testing and decoupling.
type CatalogStore interface {
	Import(records []catalog.ImageRecord) (int, error)
	Records() ([]catalog.ImageRecord, error)
	Get(id string) (catalog.ImageRecord, error)
	Close() error
}

// ErrNoDataset is returned when no manifest, directory or catalog is configured.
var ErrNoDataset = errors.New("no dataset configured")

// Service is the main entry point for business logic.
type Service struct {
	Store  CatalogStore
	Images *ImageService
	Logger *slog.Logger
}

// NewService constructs a new Service. store may be nil for read-only use
// of manifests and directories.
func NewService(store CatalogStore, images *ImageService, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if images == nil {
		images = NewImageService("", logger)
	}
	return &Service{Store: store, Images: images, Logger: logger}
}

// SourceFor returns a directory scanner when path is a directory and a
// manifest loader otherwise.
func (s *Service) SourceFor(path string) (catalog.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot import %s: %w", path, err)
	}
	if info.IsDir() {
		return scan.Directory{Root: path, Logger: s.Logger}, nil
	}
	return catalog.Manifest{Path: path}, nil
}

// Import replaces the catalog contents with the records at path.
func (s *Service) Import(path string) (int, error) {
	if s.Store == nil {
		return 0, errors.New("no catalog store open")
	}
	src, err := s.SourceFor(path)
	if err != nil {
		return 0, err
	}
	records, err := src.Records()
	if err != nil {
		return 0, err
	}
	n, err := s.Store.Import(records)
	if err != nil {
		return 0, fmt.Errorf("failed to import %s: %w", path, err)
	}
	s.Logger.Info("catalog imported", "path", path, "records", n)
	return n, nil
}

// Records returns the catalog contents in import order.
func (s *Service) Records() ([]catalog.ImageRecord, error) {
	if s.Store == nil {
		return nil, errors.New("no catalog store open")
	}
	return s.Store.Records()
}

// Lookup returns one catalog record.
func (s *Service) Lookup(id string) (catalog.ImageRecord, error) {
	if s.Store == nil {
		return catalog.ImageRecord{}, errors.New("no catalog store open")
	}
	return s.Store.Get(id)
}

// Playlist builds the rotation and the section groups of the catalog.
func (s *Service) Playlist() (playlist.Playlist, error) {
	records, err := s.Records()
	if err != nil {
		return playlist.Playlist{}, err
	}
	return playlist.New(records), nil
}

// LoadDataset reads the dataset selected by cfg. The manifest wins over the
// directory, which wins over the catalog file.
func LoadDataset(cfg config.DatasetConfig, logger *slog.Logger) ([]catalog.ImageRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case cfg.Manifest != "":
		logger.Debug("loading dataset from manifest", "path", cfg.Manifest)
		return catalog.LoadManifest(cfg.Manifest)
	case cfg.Directory != "":
		logger.Debug("loading dataset from directory", "path", cfg.Directory)
		if info, err := os.Stat(cfg.Directory); err != nil || !info.IsDir() {
			logger.Warn("dataset directory not found, gallery will be empty", "path", cfg.Directory)
		}
		return scan.Run(cfg.Directory, logger)
	case cfg.Catalog != "":
		store, err := catalog.OpenStore(cfg.Catalog, logger)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Records()
	}
	return nil, ErrNoDataset
}
