// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Aube

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aube/minimal-log/internal/logger"
	"github.com/aube/minimal-log/internal/observe"
	"github.com/aube/minimal-log/internal/store"
	"github.com/aube/minimal-log/internal/validators"
	"github.com/aube/minimal-log/models"
)

// MemoryService is the application-facing API over journal entries. It owns
// the coupling between the image file store and the database: an imported
// photo is persisted to disk before the row referencing it is written, and
// removed again when the row goes away.
type MemoryService struct {
	memories  *store.MemoryRepository
	images    *store.ImageStorage
	validator validators.Validator
	logger    *logger.Logger
}

func NewMemoryService(memories *store.MemoryRepository, images *store.ImageStorage, log *logger.Logger) *MemoryService {
	return &MemoryService{
		memories:  memories,
		images:    images,
		validator: validators.NewMemoryValidator(),
		logger:    log,
	}
}

// Add validates and stores a new entry (or replaces an existing one when
// memory.ID is set). When imageSource is non-nil its content is persisted to the image store
// first and the resulting path overrides memory.ImagePath. If the database
// insert then fails, the freshly stored image is removed again so no orphan
// file is left behind.
func (s *MemoryService) Add(ctx context.Context, memory models.Memory, imageSource io.Reader) (int64, error) {
	if err := s.validator.Validate(ctx, memory); err != nil {
		return 0, err
	}

	if imageSource != nil {
		path, err := s.images.Persist(imageSource)
		if err != nil {
			return 0, fmt.Errorf("persist image: %w", err)
		}
		memory.ImagePath = path
	}

	id, err := s.memories.Save(ctx, models.RecordFromMemory(memory))
	if err != nil {
		if imageSource != nil {
			s.images.Delete(memory.ImagePath)
		}
		return 0, err
	}

	return id, nil
}

// Delete removes the entry with the given id together with its image file.
// The image is deleted before the row, mirroring Add in reverse: a crash in
// between leaves a row with a dangling path, never an orphan file. An unknown
// id is a no-op; a failed image removal is logged and does not block the row
// delete.
func (s *MemoryService) Delete(ctx context.Context, id int64) error {
	record, err := s.memories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrMemoryNotFound) {
			return nil
		}
		return err
	}

	if res := s.images.Delete(record.ImagePath); res == store.DeleteFailed {
		s.logger.Warn().
			Str("func", "MemoryService.Delete").
			Int64("id", id).
			Str("image_path", record.ImagePath).
			Msg("image could not be removed; deleting entry anyway")
	}

	return s.memories.DeleteByID(ctx, id)
}

// ToggleFavorite flips the favorite flag and returns the new state.
func (s *MemoryService) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	return s.memories.ToggleFavorite(ctx, id)
}

// Get returns the entry with the given id.
func (s *MemoryService) Get(ctx context.Context, id int64) (models.Memory, error) {
	record, err := s.memories.GetByID(ctx, id)
	if err != nil {
		return models.Memory{}, err
	}
	return record.ToMemory(), nil
}

// List returns all entries, newest first.
func (s *MemoryService) List(ctx context.Context) ([]models.Memory, error) {
	records, err := s.memories.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toMemories(records), nil
}

// Favorites returns all favorite entries, newest first.
func (s *MemoryService) Favorites(ctx context.Context) ([]models.Memory, error) {
	records, err := s.memories.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}
	return toMemories(records), nil
}

// Search returns entries whose title, description or tags match q. A blank
// query returns everything.
func (s *MemoryService) Search(ctx context.Context, q string) ([]models.Memory, error) {
	records, err := s.memories.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	return toMemories(records), nil
}

// Today returns the entry to surface for the given date, preferring an
// anniversary (same month and day) and falling back to the most recent
// entry. The boolean is false when the journal is empty.
func (s *MemoryService) Today(ctx context.Context, date time.Time) (models.Memory, bool, error) {
	record, err := s.memories.GetToday(ctx, date)
	if err != nil {
		if errors.Is(err, store.ErrMemoryNotFound) {
			return models.Memory{}, false, nil
		}
		return models.Memory{}, false, err
	}
	return record.ToMemory(), true, nil
}

// ObserveAll streams the full entry list, re-emitting after every change.
func (s *MemoryService) ObserveAll(ctx context.Context) *observe.Stream[[]models.Memory] {
	return observe.Map(s.memories.ObserveAll(ctx), toMemories)
}

// ObserveFavorites streams the favorite entry list.
func (s *MemoryService) ObserveFavorites(ctx context.Context) *observe.Stream[[]models.Memory] {
	return observe.Map(s.memories.ObserveFavorites(ctx), toMemories)
}

// ObserveSearch streams the result list for a fixed query.
func (s *MemoryService) ObserveSearch(ctx context.Context, q string) *observe.Stream[[]models.Memory] {
	return observe.Map(s.memories.ObserveSearch(ctx, q), toMemories)
}

// ObserveByID streams a single entry; nil values mark its absence.
func (s *MemoryService) ObserveByID(ctx context.Context, id int64) *observe.Stream[*models.Memory] {
	return observe.Map(s.memories.ObserveByID(ctx, id), toMemoryPtr)
}

// ObserveToday streams the entry-of-the-day for a fixed date.
func (s *MemoryService) ObserveToday(ctx context.Context, date time.Time) *observe.Stream[*models.Memory] {
	return observe.Map(s.memories.ObserveToday(ctx, date), toMemoryPtr)
}

func toMemories(records []models.MemoryRecord) []models.Memory {
	if records == nil {
		return nil
	}
	memories := make([]models.Memory, len(records))
	for i, record := range records {
		memories[i] = record.ToMemory()
	}
	return memories
}

func toMemoryPtr(record *models.MemoryRecord) *models.Memory {
	if record == nil {
		return nil
	}
	m := record.ToMemory()
	return &m
}
