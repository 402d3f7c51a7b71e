package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/server/models"
)

var userCols = []string{
	"id", "email", "username", "first_name", "last_name", "phone", "bio", "avatar_url",
	"hashed_password", "is_active", "is_superuser", "last_login", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func aliceRow(t *testing.T) *sqlmock.Rows {
	t.Helper()
	now := time.Now()
	return sqlmock.NewRows(userCols).
		AddRow(int64(42), "alice@x.com", "alice", "Alice", "Doe", nil, nil, nil,
			"$2a$10$hash", true, false, nil, now, now)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WithArgs("alice@x.com", "alice", "Alice", "Doe", nil, nil, nil, "$2a$10$hash").
		WillReturnRows(aliceRow(t))

	u := &models.User{
		Email: "alice@x.com", Username: "alice",
		FirstName: "Alice", LastName: "Doe", HashedPassword: "$2a$10$hash",
	}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 || got.Username != "alice" || !got.IsActive {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{Email: "alice@x.com", Username: "alice2"})
	if !errors.Is(err, common.ErrorDuplicateEmail) {
		t.Fatalf("want common.ErrorDuplicateEmail, got %v", err)
	}
}

func TestCreate_DuplicateUsername(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, err := repo.Create(context.Background(), &models.User{Email: "bob@x.com", Username: "alice"})
	if !errors.Is(err, common.ErrorDuplicateUsername) {
		t.Fatalf("want common.ErrorDuplicateUsername, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(42)).
		WillReturnRows(aliceRow(t))

	got, err := repo.GetByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Email != "alice@x.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 7)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByEmail_CaseInsensitive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)`).
		WithArgs("Alice@X.com").
		WillReturnRows(aliceRow(t))

	got, err := repo.GetByEmail(context.Background(), "Alice@X.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestList_SearchAndFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	active := true

	mock.ExpectQuery(`SELECT\s+count\(\*\)\s+FROM\s+users\s+WHERE`).
		WithArgs("%ali%", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(45)))

	mock.ExpectQuery(`ORDER\s+BY\s+created_at\s+DESC\s+LIMIT\s+\$3\s+OFFSET\s+\$4`).
		WithArgs("%ali%", true, 20, 0).
		WillReturnRows(aliceRow(t))

	got, total, err := repo.List(context.Background(), 0, 20, "ali", &active)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 45 {
		t.Fatalf("want total 45, got %d", total)
	}
	if len(got) != 1 || got[0].Username != "alice" {
		t.Fatalf("unexpected page: %+v", got)
	}
}

func TestList_NoFilters(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+count\(\*\)\s+FROM\s+users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	mock.ExpectQuery(`ORDER\s+BY\s+created_at\s+DESC\s+LIMIT\s+\$1\s+OFFSET\s+\$2`).
		WithArgs(20, 40).
		WillReturnRows(aliceRow(t))

	_, total, err := repo.List(context.Background(), 40, 20, "", nil)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 1 {
		t.Fatalf("want total 1, got %d", total)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	bio := "hello"
	mock.ExpectQuery(`UPDATE\s+users\s+SET\s+bio\s*=\s*\$1,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$2`).
		WithArgs("hello", int64(42)).
		WillReturnRows(aliceRow(t))

	got, err := repo.Update(context.Background(), 42, models.UserUpdate{Bio: &bio})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.ID != 42 {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	name := "Bob"
	mock.ExpectQuery(`UPDATE\s+users\s+SET`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 7, models.UserUpdate{FirstName: &name})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdate_DuplicateField(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	email := "taken@x.com"
	mock.ExpectQuery(`UPDATE\s+users\s+SET`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Update(context.Background(), 42, models.UserUpdate{Email: &email})
	if !errors.Is(err, common.ErrorDuplicateEmail) {
		t.Fatalf("want common.ErrorDuplicateEmail, got %v", err)
	}
}

func TestSetActive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+is_active\s*=\s*\$2`).
		WithArgs(int64(42), false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetActive(context.Background(), 42, false); err != nil {
		t.Fatalf("SetActive error: %v", err)
	}
}

func TestSetActive_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+is_active\s*=\s*\$2`).
		WithArgs(int64(7), true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetActive(context.Background(), 7, true)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestHardDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.HardDelete(context.Background(), 42); err != nil {
		t.Fatalf("HardDelete error: %v", err)
	}
}

func TestHardDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+users`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.HardDelete(context.Background(), 7); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+hashed_password\s*=\s*\$2`).
		WithArgs(int64(42), "$2a$10$new").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePassword(context.Background(), 42, "$2a$10$new"); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
}

func TestTouchLastLogin(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+last_login\s*=\s*now\(\)`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.TouchLastLogin(context.Background(), 42); err != nil {
		t.Fatalf("TouchLastLogin error: %v", err)
	}
}
