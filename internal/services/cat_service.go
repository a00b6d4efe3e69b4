package services

import (
	"context"
	"log/slog"

	"github.com/oKhodus/spy-cat/internal/models"
	"github.com/oKhodus/spy-cat/internal/myerrors"
	"github.com/oKhodus/spy-cat/internal/repositories"
	"github.com/oKhodus/spy-cat/pkg/catapi"
)

type CatService interface {
	Add(ctx context.Context, cat models.CatCreate) (models.Cat, error)
	GetById(ctx context.Context, id int64) (models.Cat, error)
	UpdateSalary(ctx context.Context, id int64, update models.CatUpdate) (models.Cat, error)
	DeleteById(ctx context.Context, id int64) error
	GetAll(ctx context.Context) ([]models.Cat, error)
}

type DefaultCatService struct {
	store  repositories.Store
	catAPI catapi.CatAPI
	logger *slog.Logger
}

func NewDefaultCatService(store repositories.Store, catAPI catapi.CatAPI, logger *slog.Logger) *DefaultCatService {
	return &DefaultCatService{
		store:  store,
		catAPI: catAPI,
		logger: logger,
	}
}

// Add validates the breed against the registry before saving. Any lookup
// failure rejects the cat.
func (d *DefaultCatService) Add(ctx context.Context, create models.CatCreate) (models.Cat, error) {
	if _, err := d.catAPI.GetBreedByName(ctx, create.Breed); err != nil {
		d.logger.InfoContext(ctx, "cat.breed_rejected", "breed", create.Breed, "error", err)
		return models.Cat{}, myerrors.InvalidBreed(create.Breed)
	}
	newCat, err := d.store.Repositories().Cats.Add(ctx, create.ToCat())
	if err != nil {
		return models.Cat{}, err
	}
	d.logger.InfoContext(ctx, "cat.created", "cat_id", newCat.Id, "breed", newCat.Breed)
	return newCat, nil
}

func (d *DefaultCatService) GetById(ctx context.Context, id int64) (models.Cat, error) {
	cat, err := d.store.Repositories().Cats.GetById(ctx, id)
	if err != nil {
		return models.Cat{}, notFound(err, "cat", id)
	}
	return cat, nil
}

func (d *DefaultCatService) UpdateSalary(ctx context.Context, id int64, update models.CatUpdate) (models.Cat, error) {
	var updatedCat models.Cat
	err := d.store.WithTransaction(ctx, func(r repositories.Repositories) error {
		if update.Salary != nil {
			if err := r.Cats.UpdateSalary(ctx, id, *update.Salary); err != nil {
				return err
			}
		}
		cat, err := r.Cats.GetById(ctx, id)
		if err != nil {
			return err
		}
		updatedCat = cat
		return nil
	})
	if err != nil {
		return models.Cat{}, notFound(err, "cat", id)
	}
	return updatedCat, nil
}

// DeleteById leaves missions that reference the cat untouched.
func (d *DefaultCatService) DeleteById(ctx context.Context, id int64) error {
	if err := d.store.Repositories().Cats.DeleteById(ctx, id); err != nil {
		return notFound(err, "cat", id)
	}
	d.logger.InfoContext(ctx, "cat.deleted", "cat_id", id)
	return nil
}

func (d *DefaultCatService) GetAll(ctx context.Context) ([]models.Cat, error) {
	cats, err := d.store.Repositories().Cats.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return cats, nil
}
