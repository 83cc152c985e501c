package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// manifestFile is the on-disk layout shared by the TOML and YAML manifests.
//
//	[[image]]
//	id = "eng1"
//	location = "photos/eng1.jpg"
//	section = "Engagement"
//	caption = "Two souls, one frame."
type manifestFile struct {
	Images []ImageRecord `toml:"image" yaml:"images"`
}

// Manifest is a Source backed by a manifest file.
type Manifest struct {
	Path string
}

// Records implements Source.
func (m Manifest) Records() ([]ImageRecord, error) {
	return LoadManifest(m.Path)
}

// LoadManifest reads a .toml, .yaml or .yml manifest. Relative file locations
// are resolved against the manifest's directory; URLs are kept as is.
func LoadManifest(path string) ([]ImageRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var mf manifestFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &mf); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &mf); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", filepath.Ext(path))
	}

	base := filepath.Dir(path)
	for i := range mf.Images {
		mf.Images[i].Location = resolveLocation(base, mf.Images[i].Location)
	}
	return Validate(mf.Images)
}

// IsRemote reports whether a location is fetched over http(s).
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func resolveLocation(base, location string) string {
	location = strings.TrimSpace(location)
	if location == "" || IsRemote(location) || filepath.IsAbs(location) {
		return location
	}
	return filepath.Join(base, location)
}
