package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"translatebot/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestJournalRepo_SaveEntry(t *testing.T) {
	tests := []struct {
		name      string
		entry     domain.TranslationLog
		errArg    interface{}
		mockError error
	}{
		{
			name: "successful translation",
			entry: domain.TranslationLog{
				ID:          "0b6f4bd4-6f55-4a4c-9a57-4c6f0e1c6d11",
				EventID:     "101",
				ChannelID:   "-1001",
				UserID:      "42",
				Backend:     "ionet",
				Success:     true,
				SourceChars: 16,
				CreatedAt:   time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
			},
			errArg: sql.NullString{},
		},
		{
			name: "failed translation",
			entry: domain.TranslationLog{
				ID:          "7d0b3b5e-2c35-4a59-8f0c-3b8b6e7d9e21",
				EventID:     "102",
				ChannelID:   "-1001",
				UserID:      "42",
				Backend:     "ionet",
				Success:     false,
				Error:       "Translation API error: 500 - boom",
				SourceChars: 9,
				CreatedAt:   time.Date(2024, 6, 15, 10, 5, 0, 0, time.UTC),
			},
			errArg: sql.NullString{String: "Translation API error: 500 - boom", Valid: true},
		},
		{
			name: "database error",
			entry: domain.TranslationLog{
				ID:        "c0a8c1c4-1a1b-4c3d-9e8f-0a1b2c3d4e5f",
				EventID:   "103",
				Backend:   "openai",
				Success:   true,
				CreatedAt: time.Date(2024, 6, 15, 10, 10, 0, 0, time.UTC),
			},
			errArg:    sql.NullString{},
			mockError: fmt.Errorf("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewJournalRepo(db)

			e := tt.entry
			exp := mock.ExpectExec("INSERT INTO translation_log").
				WithArgs(e.ID, e.EventID, e.ChannelID, e.UserID, e.Backend, e.Success, tt.errArg, e.SourceChars, e.CreatedAt)
			if tt.mockError != nil {
				exp.WillReturnError(tt.mockError)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err = repo.SaveEntry(tt.entry)

			if tt.mockError != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestJournalRepo_CountSince(t *testing.T) {
	tests := []struct {
		name           string
		mockRows       *sqlmock.Rows
		mockError      error
		expectedTotal  int
		expectedFailed int
		expectedError  bool
	}{
		{
			name:           "some entries",
			mockRows:       sqlmock.NewRows([]string{"count", "count"}).AddRow(12, 3),
			expectedTotal:  12,
			expectedFailed: 3,
		},
		{
			name:     "empty journal",
			mockRows: sqlmock.NewRows([]string{"count", "count"}).AddRow(0, 0),
		},
		{
			name:          "database error",
			mockError:     fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewJournalRepo(db)

			exp := mock.ExpectQuery("SELECT COUNT\\(\\*\\)").WithArgs(7)
			if tt.mockError != nil {
				exp.WillReturnError(tt.mockError)
			} else {
				exp.WillReturnRows(tt.mockRows)
			}

			total, failed, err := repo.CountSince(7)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedTotal, total)
				assert.Equal(t, tt.expectedFailed, failed)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestJournalRepo_CleanOldEntries(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewJournalRepo(db)

	mock.ExpectExec("DELETE FROM translation_log").
		WithArgs(30).
		WillReturnResult(sqlmock.NewResult(0, 5))

	err = repo.CleanOldEntries(30)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
