package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/cryptosden/backend/internal/model"
)

func TestPreferenceRepository_Get_NotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewPreferenceRepository(db)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM notification_preferences WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnError(sql.ErrNoRows)

	prefs, err := repo.Get(context.Background(), userID)

	assert.ErrorIs(t, err, ErrPreferenceNotFound)
	assert.Nil(t, prefs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepository_Upsert(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewPreferenceRepository(db)

	prefs := model.DefaultPreference(uuid.New())
	prefs.Frequency = model.FrequencyDaily

	now := time.Now()
	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)

	mock.ExpectQuery(`INSERT INTO notification_preferences`).
		WithArgs(prefs.UserID, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			model.FrequencyDaily, sqlmock.AnyArg(), prefs.Timezone).
		WillReturnRows(rows)

	err := repo.Upsert(context.Background(), prefs)

	assert.NoError(t, err)
	assert.Equal(t, now, prefs.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepository_ListDigestDue(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewPreferenceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"user_id", "email", "push", "sms", "frequency",
		"quiet_hours", "timezone", "last_digest_at", "created_at", "updated_at"}).
		AddRow(uuid.New(), []byte(`{"enabled":true,"alerts":true}`), []byte(`{}`), []byte(`{}`),
			"daily", []byte(`{}`), "UTC", nil, now, now)

	mock.ExpectQuery(`SELECT \* FROM notification_preferences`).
		WithArgs(now).
		WillReturnRows(rows)

	due, err := repo.ListDigestDue(context.Background(), now)

	assert.NoError(t, err)
	assert.Len(t, due, 1)
	assert.Equal(t, model.FrequencyDaily, due[0].Frequency)
	assert.True(t, due[0].Email.Enabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepository_SetLastDigestAt(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewPreferenceRepository(db)

	userID := uuid.New()
	at := time.Now()

	mock.ExpectExec(`UPDATE notification_preferences SET`).
		WithArgs(at, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetLastDigestAt(context.Background(), userID, at)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
