package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/userhub/internal/dbx"
	"github.com/dmitrijs2005/userhub/internal/logging"
	"github.com/dmitrijs2005/userhub/internal/server/models"
	"github.com/dmitrijs2005/userhub/internal/server/repositories/users"
)

// fakeUsersRepo is a hand-rolled users.Repository with per-method outputs
// and minimal call recording.
type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byIDOut *models.User
	byIDErr error

	byEmailOut *models.User
	byEmailErr error

	byUsernameOut *models.User
	byUsernameErr error

	listOut   []*models.User
	listTotal int64
	listErr   error

	updateOut *models.User
	updateErr error

	setActiveErr  error
	hardDeleteErr error
	updatePwErr   error
	touchErr      error

	createdWith      *models.User
	updatedWith      models.UserUpdate
	listOffset       int
	listLimit        int
	listSearch       string
	listIsActive     *bool
	setActiveCalls   []bool
	updatePwHash     string
	updatePwCalled   bool
	touchCalled      bool
	hardDeleteCalled bool
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	f.createdWith = user
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.byUsernameErr != nil {
		return nil, f.byUsernameErr
	}
	return f.byUsernameOut, nil
}

func (f *fakeUsersRepo) List(ctx context.Context, offset, limit int, search string, isActive *bool) ([]*models.User, int64, error) {
	f.listOffset, f.listLimit, f.listSearch, f.listIsActive = offset, limit, search, isActive
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listOut, f.listTotal, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	f.updatedWith = upd
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakeUsersRepo) SetActive(ctx context.Context, id int64, active bool) error {
	f.setActiveCalls = append(f.setActiveCalls, active)
	return f.setActiveErr
}

func (f *fakeUsersRepo) HardDelete(ctx context.Context, id int64) error {
	f.hardDeleteCalled = true
	return f.hardDeleteErr
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	f.updatePwCalled = true
	f.updatePwHash = hashedPassword
	return f.updatePwErr
}

func (f *fakeUsersRepo) TouchLastLogin(ctx context.Context, id int64) error {
	f.touchCalled = true
	return f.touchErr
}

type fakeManager struct {
	repo *fakeUsersRepo
}

func (m *fakeManager) Users(db dbx.DBTX) users.Repository { return m.repo }

func (m *fakeManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func discardLogger(t *testing.T) logging.Logger {
	t.Helper()
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
