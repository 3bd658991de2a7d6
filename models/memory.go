// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Aube

package models

import (
	"strings"
	"time"
)

// Memory represents a single journaled record: a dated entry with a title,
// free-form description, optional photo and a set of short tags.
// It is the primary domain model of the application.
type Memory struct {
	// ID is the unique identifier of the record in the database.
	// Zero means the memory has not been persisted yet.
	ID int64 `json:"id"`

	// Title is the short human-readable caption of the memory.
	Title string `json:"title"`

	// Description is the free-form body text.
	Description string `json:"description"`

	// ImagePath is the absolute path of the photo stored in the local image
	// directory. Empty when the memory has no photo attached.
	ImagePath string `json:"image_path,omitempty"`

	// Date is the calendar day the memory belongs to. Only the date part is
	// meaningful; the time-of-day component is ignored by persistence.
	Date time.Time `json:"date"`

	// Tags is the ordered list of short text labels attached to the memory.
	// Storage does not enforce uniqueness.
	Tags []string `json:"tags,omitempty"`

	// IsFavorite marks the memory as user-starred.
	IsFavorite bool `json:"is_favorite"`
}

// MemoryRecord is the persistence shape of [Memory] as stored in the
// memories table. Dates are stored as days since the Unix epoch so that the
// natural integer ordering matches chronological ordering, and tags are
// flattened into a single comma-separated column.
type MemoryRecord struct {
	ID          int64
	Title       string
	Description string
	ImagePath   string
	EpochDay    int64
	TagsCSV     string
	IsFavorite  bool
}

const tagSeparator = ","

// EpochDay converts the date part of t to a day count since 1970-01-01.
// The time-of-day component and time zone offset of t are discarded.
func EpochDay(t time.Time) int64 {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return day.Unix() / (24 * 60 * 60)
}

// DateFromEpochDay is the inverse of [EpochDay]: it returns the UTC midnight
// of the given day count.
func DateFromEpochDay(day int64) time.Time {
	return time.Unix(day*24*60*60, 0).UTC()
}

// RecordFromMemory translates a domain memory into its storage shape.
func RecordFromMemory(m Memory) MemoryRecord {
	return MemoryRecord{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		ImagePath:   m.ImagePath,
		EpochDay:    EpochDay(m.Date),
		TagsCSV:     strings.Join(m.Tags, tagSeparator),
		IsFavorite:  m.IsFavorite,
	}
}

// ToMemory translates a storage record back into the domain shape.
// A blank tags column yields an empty tag list, not a single empty tag.
func (r MemoryRecord) ToMemory() Memory {
	var tags []string
	if strings.TrimSpace(r.TagsCSV) != "" {
		tags = strings.Split(r.TagsCSV, tagSeparator)
	}

	return Memory{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		ImagePath:   r.ImagePath,
		Date:        DateFromEpochDay(r.EpochDay),
		Tags:        tags,
		IsFavorite:  r.IsFavorite,
	}
}
