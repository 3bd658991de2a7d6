package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aube/minimal-log/internal/logger"
	"github.com/aube/minimal-log/internal/observe"
	"github.com/aube/minimal-log/models"
)

// MemoryRepository is the SQLite-backed store for journal entries. Every
// mutation signals the attached change notifier so that live queries created
// with the Observe methods push a fresh result to their subscribers.
type MemoryRepository struct {
	*DB
	logger  *logger.Logger
	changes *notifier
}

func NewMemoryRepository(db *DB, log *logger.Logger) *MemoryRepository {
	return &MemoryRepository{
		DB:      db,
		logger:  log,
		changes: newNotifier(),
	}
}

// Save inserts record, replacing an existing row when record.ID is non-zero.
// It returns the id of the stored row.
func (r *MemoryRepository) Save(ctx context.Context, record models.MemoryRecord) (int64, error) {
	res, err := r.DB.ExecContext(ctx, saveMemory,
		record.ID,
		record.Title,
		record.Description,
		record.ImagePath,
		record.EpochDay,
		record.TagsCSV,
		record.IsFavorite,
	)
	if err != nil {
		r.logger.Err(err).
			Str("func", "MemoryRepository.Save").
			Int64("id", record.ID).
			Msg("failed to execute upsert for memory")
		return 0, fmt.Errorf("failed to save memory: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		r.logger.Err(err).
			Str("func", "MemoryRepository.Save").
			Msg("failed to resolve inserted row id")
		return 0, ErrMemoryNotSaved
	}

	r.changes.broadcast()
	return id, nil
}

// GetByID fetches a single record, returning [ErrMemoryNotFound] when the id
// is unknown.
func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (models.MemoryRecord, error) {
	row := r.DB.QueryRowContext(ctx, getMemoryByID, id)

	record, err := scanMemory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MemoryRecord{}, ErrMemoryNotFound
	}
	if err != nil {
		r.logger.Err(err).
			Str("func", "MemoryRepository.GetByID").
			Int64("id", id).
			Msg("failed to scan memory row")
		return models.MemoryRecord{}, fmt.Errorf("failed to get memory: %w", err)
	}

	return record, nil
}

// ListAll returns every record ordered by date descending then id descending.
func (r *MemoryRepository) ListAll(ctx context.Context) ([]models.MemoryRecord, error) {
	return r.queryMemories(ctx, "MemoryRepository.ListAll", listAllMemories)
}

// ListFavorites returns the starred records, same ordering as ListAll.
func (r *MemoryRepository) ListFavorites(ctx context.Context) ([]models.MemoryRecord, error) {
	return r.queryMemories(ctx, "MemoryRepository.ListFavorites", listFavoriteMemories)
}

// Search returns records whose title, description or tags contain q
// (case-insensitive substring). A blank q matches everything.
func (r *MemoryRepository) Search(ctx context.Context, q string) ([]models.MemoryRecord, error) {
	like := "%" + q + "%"
	return r.queryMemories(ctx, "MemoryRepository.Search", searchMemories, q, like, like, like)
}

// GetToday returns the record shown on the home screen for the given date:
// the most recent record whose month and day match date's month and day, or
// the most recent record overall when no anniversary match exists. An empty
// store yields [ErrMemoryNotFound].
func (r *MemoryRepository) GetToday(ctx context.Context, date time.Time) (models.MemoryRecord, error) {
	mm := fmt.Sprintf("%02d", int(date.Month()))
	dd := fmt.Sprintf("%02d", date.Day())

	row := r.DB.QueryRowContext(ctx, getTodayMemory, mm, dd)

	record, err := scanMemory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MemoryRecord{}, ErrMemoryNotFound
	}
	if err != nil {
		r.logger.Err(err).
			Str("func", "MemoryRepository.GetToday").
			Msg("failed to scan memory row")
		return models.MemoryRecord{}, fmt.Errorf("failed to get today's memory: %w", err)
	}

	return record, nil
}

// ToggleFavorite flips the favorite flag of the given record and returns the
// new state.
func (r *MemoryRepository) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, toggleFavoriteMemory, id)
	if err != nil {
		r.logger.Err(err).
			Str("func", "MemoryRepository.ToggleFavorite").
			Int64("id", id).
			Msg("failed to execute favorite toggle")
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to resolve affected rows: %w", err)
	}
	if affected == 0 {
		return false, ErrMemoryNotFound
	}

	var favorite bool
	if err = r.DB.QueryRowContext(ctx, getFavoriteState, id).Scan(&favorite); err != nil {
		r.logger.Err(err).
			Str("func", "MemoryRepository.ToggleFavorite").
			Int64("id", id).
			Msg("failed to read favorite state back")
		return false, fmt.Errorf("failed to read favorite state: %w", err)
	}

	r.changes.broadcast()
	return favorite, nil
}

// DeleteByID removes the record. Deleting an unknown id is a no-op.
func (r *MemoryRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, deleteMemoryByID, id); err != nil {
		r.logger.Err(err).
			Str("func", "MemoryRepository.DeleteByID").
			Int64("id", id).
			Msg("failed to execute delete")
		return fmt.Errorf("failed to delete memory: %w", err)
	}

	r.changes.broadcast()
	return nil
}

// ObserveAll is the live variant of ListAll. The stream replays its latest
// list to every new subscriber and closes when ctx is cancelled.
func (r *MemoryRepository) ObserveAll(ctx context.Context) *observe.Stream[[]models.MemoryRecord] {
	return liveQuery(ctx, r, r.ListAll)
}

// ObserveFavorites is the live variant of ListFavorites.
func (r *MemoryRepository) ObserveFavorites(ctx context.Context) *observe.Stream[[]models.MemoryRecord] {
	return liveQuery(ctx, r, r.ListFavorites)
}

// ObserveSearch is the live variant of Search for a fixed filter string.
func (r *MemoryRepository) ObserveSearch(ctx context.Context, q string) *observe.Stream[[]models.MemoryRecord] {
	return liveQuery(ctx, r, func(ctx context.Context) ([]models.MemoryRecord, error) {
		return r.Search(ctx, q)
	})
}

// ObserveByID is the live single-record view. A nil value means the record
// does not (or no longer does) exist.
func (r *MemoryRepository) ObserveByID(ctx context.Context, id int64) *observe.Stream[*models.MemoryRecord] {
	return liveQuery(ctx, r, func(ctx context.Context) (*models.MemoryRecord, error) {
		record, err := r.GetByID(ctx, id)
		if errors.Is(err, ErrMemoryNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &record, nil
	})
}

// ObserveToday is the live variant of GetToday for a fixed date. A nil value
// means the store is empty.
func (r *MemoryRepository) ObserveToday(ctx context.Context, date time.Time) *observe.Stream[*models.MemoryRecord] {
	return liveQuery(ctx, r, func(ctx context.Context) (*models.MemoryRecord, error) {
		record, err := r.GetToday(ctx, date)
		if errors.Is(err, ErrMemoryNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &record, nil
	})
}

func (r *MemoryRepository) queryMemories(ctx context.Context, caller, query string, args ...any) ([]models.MemoryRecord, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).
			Str("func", caller).
			Msg("failed to execute memory query")
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	var records []models.MemoryRecord
	for rows.Next() {
		record, scanErr := scanMemory(rows)
		if scanErr != nil {
			r.logger.Err(scanErr).
				Str("func", caller).
				Msg("failed to scan memory row")
			return nil, fmt.Errorf("failed to scan memory row: %w", scanErr)
		}
		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		r.logger.Err(rowsErr).
			Str("func", caller).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating memory rows: %w", rowsErr)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemory(row rowScanner) (models.MemoryRecord, error) {
	var (
		record    models.MemoryRecord
		imagePath sql.NullString
	)

	err := row.Scan(
		&record.ID,
		&record.Title,
		&record.Description,
		&imagePath,
		&record.EpochDay,
		&record.TagsCSV,
		&record.IsFavorite,
	)
	if err != nil {
		return models.MemoryRecord{}, err
	}

	record.ImagePath = imagePath.String
	return record, nil
}

// liveQuery wires a one-shot fetch into the change notifier: the fetch runs
// once up front and again after every committed mutation, each fresh result
// being published to the returned stream. Fetch failures are logged and the
// previous value stays current.
func liveQuery[T any](ctx context.Context, r *MemoryRepository, fetch func(context.Context) (T, error)) *observe.Stream[T] {
	stream := observe.NewStream[T]()
	id, ch := r.changes.subscribe()

	refresh := func() {
		v, err := fetch(ctx)
		if err != nil {
			r.logger.Err(err).Str("func", "liveQuery").Msg("live query refresh failed")
			return
		}
		stream.Publish(v)
	}

	refresh()

	go func() {
		defer func() {
			r.changes.unsubscribe(id)
			stream.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				refresh()
			}
		}
	}()

	return stream
}
