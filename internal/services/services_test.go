package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/oKhodus/spy-cat/internal/models"
	"github.com/oKhodus/spy-cat/internal/myerrors"
	"github.com/oKhodus/spy-cat/internal/repositories"
	"github.com/oKhodus/spy-cat/pkg/catapi"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestStore(t *testing.T) *repositories.SQLStore {
	t.Helper()
	ctx := context.Background()
	db, err := repositories.Open(ctx, repositories.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repositories.Migrate(ctx, db, repositories.DialectSQLite))
	return repositories.NewSQLStore(db, repositories.DialectSQLite)
}

type FakeCatAPI struct {
	breeds []catapi.Breed
	err    error
}

func NewFakeCatAPI() *FakeCatAPI {
	return &FakeCatAPI{
		breeds: []catapi.Breed{
			{Id: "abys", Name: "Abyssinian"},
			{Id: "aege", Name: "Aegean"},
			{Id: "abob", Name: "American Bobtail"},
		},
	}
}

func (f *FakeCatAPI) GetBreedByName(ctx context.Context, name string) (catapi.Breed, error) {
	if f.err != nil {
		return catapi.Breed{}, f.err
	}
	for _, breed := range f.breeds {
		if strings.EqualFold(breed.Name, name) {
			return breed, nil
		}
	}
	return catapi.Breed{}, &catapi.UnexistedBreedError{Breed: name}
}

func (f *FakeCatAPI) ListBreeds(ctx context.Context) ([]catapi.Breed, error) {
	return f.breeds, f.err
}

func ptr[T any](v T) *T {
	return &v
}

func newCat(name, breed string, years int, salary float64) models.CatCreate {
	return models.CatCreate{
		Name:              name,
		Breed:             breed,
		YearsOfExperience: &years,
		Salary:            &salary,
	}
}

func targets(names ...string) models.MissionCreate {
	var create models.MissionCreate
	for _, n := range names {
		create.Targets = append(create.Targets, models.TargetCreate{Name: n, Country: "Country " + n})
	}
	return create
}

// failingTargetsStore runs transactions on a real store but fails every
// target insert.
type failingTargetsStore struct {
	*repositories.SQLStore
}

type failingTargets struct {
	repositories.TargetRepository
}

var errInsertFailed = errors.New("insert failed")

func (failingTargets) Add(context.Context, models.Target) (models.Target, error) {
	return models.Target{}, errInsertFailed
}

func (f failingTargetsStore) WithTransaction(ctx context.Context, fn func(repositories.Repositories) error) error {
	return f.SQLStore.WithTransaction(ctx, func(r repositories.Repositories) error {
		r.Targets = failingTargets{r.Targets}
		return fn(r)
	})
}

func requireRequestError(t *testing.T, err error, sentinel error) {
	t.Helper()
	require.ErrorIs(t, err, sentinel)
	var reqErr *myerrors.RequestError
	require.ErrorAs(t, err, &reqErr)
}
