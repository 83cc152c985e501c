// Package catalog holds the static image dataset shown by the gallery.
// Records are loaded once at start-up from a manifest, a directory tree or a
// bbolt catalog file and are never mutated afterwards.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Section is one of the fixed category labels an image belongs to.
type Section string

const (
	Engagement  Section = "Engagement"
	Traditional Section = "Traditional"
	Outdoor     Section = "Outdoor"
	Candid      Section = "Candid"
	Portraits   Section = "Portraits"
)

// PrioritySection is placed first in both the rotation and the section list.
const PrioritySection = Engagement

var (
	// ErrUnknownSection is returned for a section label outside the fixed set.
	ErrUnknownSection = errors.New("unknown section")
	// ErrDuplicateID is returned when two records share an identifier.
	ErrDuplicateID = errors.New("duplicate image id")
	// ErrNotFound is returned by lookups for an id that is not in the catalog.
	ErrNotFound = errors.New("image not found")
)

// AllSections returns the sections in declared display order, priority first.
func AllSections() []Section {
	return []Section{Engagement, Traditional, Outdoor, Candid, Portraits}
}

// ParseSection matches a label case-insensitively against the fixed set.
func ParseSection(label string) (Section, error) {
	trimmed := strings.TrimSpace(label)
	for _, s := range AllSections() {
		if strings.EqualFold(string(s), trimmed) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, label)
}

// ImageRecord describes one image of the dataset.
type ImageRecord struct {
	ID       string  `json:"id" toml:"id" yaml:"id"`
	Location string  `json:"location" toml:"location" yaml:"location"`
	Section  Section `json:"section" toml:"section" yaml:"section"`
	Caption  string  `json:"caption,omitempty" toml:"caption" yaml:"caption,omitempty"`
	AltText  string  `json:"alt,omitempty" toml:"alt" yaml:"alt,omitempty"`
}

// Source supplies the ordered dataset.
type Source interface {
	Records() ([]ImageRecord, error)
}

// Validate checks ids are unique, sections are known and locations are set.
// Missing alt text is filled in as "<Section> photo <n>", n counting per section.
func Validate(records []ImageRecord) ([]ImageRecord, error) {
	out := make([]ImageRecord, 0, len(records))
	seen := make(map[string]bool, len(records))
	perSection := make(map[Section]int)
	for i, r := range records {
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" {
			return nil, fmt.Errorf("record %d: id is required", i)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("record %d: %w: %s", i, ErrDuplicateID, r.ID)
		}
		seen[r.ID] = true

		section, err := ParseSection(string(r.Section))
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.ID, err)
		}
		r.Section = section

		if strings.TrimSpace(r.Location) == "" {
			return nil, fmt.Errorf("record %s: location is required", r.ID)
		}

		perSection[section]++
		if r.AltText == "" {
			r.AltText = fmt.Sprintf("%s photo %d", section, perSection[section])
		}
		out = append(out, r)
	}
	return out, nil
}
