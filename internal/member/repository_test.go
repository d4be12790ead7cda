package member

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func memberRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "club_id", "name", "email", "phone", "password_hash",
		"role", "locale", "joined_at", "created_at",
	})
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectQuery(`INSERT INTO members.*RETURNING`).
		WithArgs(1, "Sara", "sara@example.com", "+966500000000", "hash", "member", "ar").
		WillReturnRows(memberRows().
			AddRow(10, 1, "Sara", "sara@example.com", "+966500000000", "hash", "member", "ar", time.Now(), time.Now()))

	m, err := repo.Create(context.Background(), &Member{
		ClubID:       1,
		Name:         "Sara",
		Email:        "sara@example.com",
		Phone:        "+966500000000",
		PasswordHash: "hash",
		Role:         "member",
		Locale:       "ar",
	})

	assert.NoError(t, err)
	assert.Equal(t, 10, m.ID)
	assert.Equal(t, "ar", m.Locale)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_EmailExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM members WHERE email = $1)`)).
		WithArgs("sara@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "sara@example.com")

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByClub(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectQuery(`SELECT .* FROM members\s+WHERE club_id = \$1`).
		WithArgs(1, 50, 0).
		WillReturnRows(memberRows().
			AddRow(10, 1, "Sara", "sara@example.com", "", "hash", "member", "ar", time.Now(), time.Now()).
			AddRow(11, 1, "Omar", "omar@example.com", "", "hash", "member", "en", time.Now(), time.Now()))

	members, err := repo.ListByClub(context.Background(), 1, 50, 0)

	assert.NoError(t, err)
	assert.Len(t, members, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
