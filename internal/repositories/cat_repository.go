package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oKhodus/spy-cat/internal/models"
	"github.com/oKhodus/spy-cat/internal/myerrors"
)

var ErrCatNotFound = fmt.Errorf("cat %w", myerrors.ErrNotFound)

type CatRepository interface {
	GetById(ctx context.Context, id int64) (models.Cat, error)
	GetAll(ctx context.Context) ([]models.Cat, error)
	DeleteById(ctx context.Context, id int64) error
	UpdateSalary(ctx context.Context, id int64, salary float64) error
	Add(ctx context.Context, cat models.Cat) (models.Cat, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type SQLCatRepository struct {
	db Querier
}

func NewSQLCatRepository(db Querier) *SQLCatRepository {
	return &SQLCatRepository{db: db}
}

func (m *SQLCatRepository) GetById(ctx context.Context, id int64) (models.Cat, error) {
	getByIdQuery := "SELECT id, cat_name, breed, years_of_experience, salary FROM cats WHERE id = ?"
	c, err := scanCat(m.db.QueryRowContext(ctx, getByIdQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Cat{}, ErrCatNotFound
		}
		return models.Cat{}, fmt.Errorf("failed to get cat by id: %w", err)
	}
	return c, nil
}

func (m *SQLCatRepository) GetAll(ctx context.Context) ([]models.Cat, error) {
	cats := []models.Cat{}
	getAllQuery := "SELECT id, cat_name, breed, years_of_experience, salary FROM cats ORDER BY id"
	rows, err := m.db.QueryContext(ctx, getAllQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get all cats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		cat, err := scanCat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		cats = append(cats, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return cats, nil
}

func (m *SQLCatRepository) DeleteById(ctx context.Context, id int64) error {
	deleteCatQuery := "DELETE FROM cats WHERE id = ?"
	res, err := m.db.ExecContext(ctx, deleteCatQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete cat: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted cats: %w", err)
	}
	if rows == 0 {
		return ErrCatNotFound
	}
	return nil
}

// UpdateSalary checks existence first: MySQL reports zero affected rows when
// the new salary equals the old one.
func (m *SQLCatRepository) UpdateSalary(ctx context.Context, id int64, salary float64) error {
	exists, err := m.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrCatNotFound
	}

	updateCatQuery := "UPDATE cats SET salary = ? WHERE id = ?"
	_, err = m.db.ExecContext(ctx, updateCatQuery, salary, id)
	if err != nil {
		return fmt.Errorf("failed to update cat: %w", err)
	}
	return nil
}

func (m *SQLCatRepository) Add(ctx context.Context, cat models.Cat) (models.Cat, error) {
	newCatQuery := `INSERT INTO cats(cat_name, years_of_experience, salary, breed) VALUES(?,?,?,?)`
	result, err := m.db.ExecContext(ctx, newCatQuery, cat.Name, cat.YearsOfExperience, cat.Salary, cat.Breed)
	if err != nil {
		return models.Cat{}, fmt.Errorf("failed to add new cat: %w", err)
	}

	cat.Id, err = result.LastInsertId()
	if err != nil {
		return models.Cat{}, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return cat, nil
}

func (m *SQLCatRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	catExistsQuery := "SELECT EXISTS (SELECT 1 FROM cats WHERE id = ?)"
	err := m.db.QueryRowContext(ctx, catExistsQuery, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("existence check failed: %w", err)
	}
	return exists, nil
}

func scanCat(row scanner) (models.Cat, error) {
	var c models.Cat
	err := row.Scan(&c.Id, &c.Name, &c.Breed, &c.YearsOfExperience, &c.Salary)
	return c, err
}
