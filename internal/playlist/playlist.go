// Package playlist orders the dataset into the hero rotation and the
// sectioned thumbnail groups.
package playlist

import "fygallery/internal/catalog"

// SectionGroup is the records of one section, in dataset order.
type SectionGroup struct {
	Name  catalog.Section
	Items []catalog.ImageRecord
}

// BuildRotation returns the priority-section records followed by all other
// records, both in original relative order. The input is not modified.
func BuildRotation(records []catalog.ImageRecord) []catalog.ImageRecord {
	rotation := make([]catalog.ImageRecord, 0, len(records))
	for _, r := range records {
		if r.Section == catalog.PrioritySection {
			rotation = append(rotation, r)
		}
	}
	for _, r := range records {
		if r.Section != catalog.PrioritySection {
			rotation = append(rotation, r)
		}
	}
	return rotation
}

// BuildSections partitions records into one group per declared section,
// priority first. Sections without records are returned as empty groups.
func BuildSections(records []catalog.ImageRecord) []SectionGroup {
	sections := catalog.AllSections()
	groups := make([]SectionGroup, len(sections))
	index := make(map[catalog.Section]int, len(sections))
	for i, s := range sections {
		groups[i] = SectionGroup{Name: s, Items: []catalog.ImageRecord{}}
		index[s] = i
	}
	for _, r := range records {
		if i, ok := index[r.Section]; ok {
			groups[i].Items = append(groups[i].Items, r)
		}
	}
	return groups
}

// Playlist bundles the two derived views of one dataset.
type Playlist struct {
	Rotation []catalog.ImageRecord
	Sections []SectionGroup
}

// New builds both views of records.
func New(records []catalog.ImageRecord) Playlist {
	return Playlist{
		Rotation: BuildRotation(records),
		Sections: BuildSections(records),
	}
}

// Len returns the rotation length.
func (p Playlist) Len() int {
	return len(p.Rotation)
}

// IndexOf returns the first rotation position holding id.
func (p Playlist) IndexOf(id string) (int, bool) {
	return IndexOf(p.Rotation, id)
}

// IndexOf returns the first position in rotation whose record has id.
func IndexOf(rotation []catalog.ImageRecord, id string) (int, bool) {
	for i, r := range rotation {
		if r.ID == id {
			return i, true
		}
	}
	return -1, false
}
