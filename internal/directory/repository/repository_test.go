package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/barter/internal/directory/domain"
	apperrors "github.com/allisson/barter/internal/errors"
)

func binaryUUID(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestPostgreSQLItemRepository_GetItem(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, owner_id, name, year FROM items WHERE id = $1`)
	itemID := uuid.Must(uuid.NewV7())
	ownerID := uuid.Must(uuid.NewV7())

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(query).WithArgs(itemID).WillReturnRows(
			sqlmock.NewRows([]string{"id", "owner_id", "name", "year"}).
				AddRow(itemID.String(), ownerID.String(), "Guitar", 1969),
		)

		item, err := NewPostgreSQLItemRepository(db).GetItem(context.Background(), itemID)
		require.NoError(t, err)
		assert.Equal(t, &domain.Item{ID: itemID, OwnerID: ownerID, Name: "Guitar", Year: 1969}, item)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(query).WithArgs(itemID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "year"}))

		item, err := NewPostgreSQLItemRepository(db).GetItem(context.Background(), itemID)
		assert.Nil(t, item)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		dbErr := errors.New("connection reset")
		mock.ExpectQuery(query).WithArgs(itemID).WillReturnError(dbErr)

		_, err = NewPostgreSQLItemRepository(db).GetItem(context.Background(), itemID)
		assert.ErrorIs(t, err, dbErr)
		assert.False(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestPostgreSQLUserRepository_GetUser(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, display_name, email FROM users WHERE id = $1`)
	userID := uuid.Must(uuid.NewV7())

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(query).WithArgs(userID).WillReturnRows(
			sqlmock.NewRows([]string{"id", "display_name", "email"}).
				AddRow(userID.String(), "Alice", "alice@example.com"),
		)

		user, err := NewPostgreSQLUserRepository(db).GetUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, &domain.User{ID: userID, DisplayName: "Alice", Email: "alice@example.com"}, user)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(query).WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "email"}))

		_, err = NewPostgreSQLUserRepository(db).GetUser(context.Background(), userID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestMySQLItemRepository_GetItem(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, owner_id, name, year FROM items WHERE id = ?`)
	itemID := uuid.Must(uuid.NewV7())
	ownerID := uuid.Must(uuid.NewV7())

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(query).WithArgs(binaryUUID(t, itemID)).WillReturnRows(
			sqlmock.NewRows([]string{"id", "owner_id", "name", "year"}).
				AddRow(binaryUUID(t, itemID), binaryUUID(t, ownerID), "Bicycle", 2015),
		)

		item, err := NewMySQLItemRepository(db).GetItem(context.Background(), itemID)
		require.NoError(t, err)
		assert.Equal(t, &domain.Item{ID: itemID, OwnerID: ownerID, Name: "Bicycle", Year: 2015}, item)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(query).WithArgs(binaryUUID(t, itemID)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "year"}))

		_, err = NewMySQLItemRepository(db).GetItem(context.Background(), itemID)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestMySQLUserRepository_GetUser(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, display_name, email FROM users WHERE id = ?`)
	userID := uuid.Must(uuid.NewV7())

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(query).WithArgs(binaryUUID(t, userID)).WillReturnRows(
			sqlmock.NewRows([]string{"id", "display_name", "email"}).
				AddRow(binaryUUID(t, userID), "Bob", "bob@example.com"),
		)

		user, err := NewMySQLUserRepository(db).GetUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, &domain.User{ID: userID, DisplayName: "Bob", Email: "bob@example.com"}, user)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(query).WithArgs(binaryUUID(t, userID)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "email"}))

		_, err = NewMySQLUserRepository(db).GetUser(context.Background(), userID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
