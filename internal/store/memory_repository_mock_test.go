package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aube/minimal-log/internal/logger"
	"github.com/aube/minimal-log/models"
)

func newMockRepo(t *testing.T) (*MemoryRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewMemoryRepository(&DB{DB: db, logger: logger.Nop()}, logger.Nop())
	return repo, mock, db
}

func TestSave_ExecError(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT OR REPLACE INTO memories").
		WillReturnError(assert.AnError)

	_, err := repo.Save(context.Background(), models.MemoryRecord{Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save memory")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll_QueryError(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM memories").
		WillReturnError(assert.AnError)

	_, err := repo.ListAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query memories")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll_ScanError(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "title"}).AddRow(1, "broken")
	mock.ExpectQuery("SELECT (.+) FROM memories").WillReturnRows(rows)

	_, err := repo.ListAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan memory row")
}

func TestToggleFavorite_ExecError(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE memories").
		WillReturnError(assert.AnError)

	_, err := repo.ToggleFavorite(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to toggle favorite")
}

func TestDeleteByID_ExecError(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM memories").
		WillReturnError(assert.AnError)

	err := repo.DeleteByID(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete memory")
}
