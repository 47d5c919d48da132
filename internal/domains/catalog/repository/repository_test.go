package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"
	"voyage/infras/otel/mocks"
	"voyage/infras/postgres"
	"voyage/internal/domains/catalog/model"
	"voyage/internal/domains/catalog/repository"
	"voyage/shared"
	gDto "voyage/shared/dto"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var packageColumns = []string{
	"id", "title", "destination", "description", "price", "currency",
	"duration_days", "active", "created_at", "modified_at", "created_by", "modified_by",
}

func newRepository(t *testing.T) (repository.Package, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func TestPackageRepository_Get(t *testing.T) {
	repo, mock := newRepository(t)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(packageColumns).
		AddRow("pkg-1", "Kyoto in Autumn", "Kyoto", "Temples and maples", int64(125000), "USD", 6, true, now, now, "seed", "seed")

	mock.ExpectPrepare(regexp.QuoteMeta("SELECT packages.id, packages.title")).
		ExpectQuery().
		WithArgs("pkg-1").
		WillReturnRows(rows)

	pkg, err := repo.Get(context.Background(), shared.FilterByID("pkg-1", model.FieldID, model.TableName))

	require.NoError(t, err)
	assert.Equal(t, "pkg-1", pkg.ID)
	assert.Equal(t, int64(125000), pkg.Price)
	assert.True(t, pkg.Active)
	assert.Equal(t, "seed", pkg.CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageRepository_Get_NoRows(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare("SELECT (.+) FROM packages").
		ExpectQuery().
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(packageColumns))

	pkg, err := repo.Get(context.Background(), shared.FilterByID("missing", model.FieldID, model.TableName))

	require.NoError(t, err)
	assert.Empty(t, pkg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageRepository_Count(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare(regexp.QuoteMeta("SELECT COUNT(packages.id) FROM packages")).
		ExpectQuery().
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.Count(context.Background(), shared.FilterByField(model.FieldActive, true, model.TableName))

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageRepository_Exist_RequiresFilter(t *testing.T) {
	repo, mock := newRepository(t)

	exist, err := repo.Exist(context.Background(), gDto.FilterGroup{})

	assert.Error(t, err)
	assert.False(t, exist)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageRepository_GetAll(t *testing.T) {
	repo, mock := newRepository(t)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(packageColumns).
		AddRow("pkg-1", "Kyoto in Autumn", "Kyoto", "", int64(125000), "USD", 6, true, now, now, "seed", "seed").
		AddRow("pkg-2", "Lisbon Weekend", "Lisbon", "", int64(60000), "EUR", 3, true, now, now, "seed", "seed")

	mock.ExpectPrepare(regexp.QuoteMeta("ORDER BY price ASC LIMIT $2 OFFSET $3")).
		ExpectQuery().
		WithArgs(true, 10, 0).
		WillReturnRows(rows)

	params := gDto.QueryParams{Page: 1, Limit: 10, SortBy: model.FieldPrice, SortDir: gDto.SortDirAsc}

	packages, err := repo.GetAll(context.Background(), params, shared.FilterByField(model.FieldActive, true, model.TableName))

	require.NoError(t, err)
	assert.Len(t, packages, 2)
	assert.Equal(t, "Lisbon", packages[1].Destination)
	assert.NoError(t, mock.ExpectationsWereMet())
}
