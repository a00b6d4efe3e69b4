package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oKhodus/spy-cat/internal/models"
	"github.com/oKhodus/spy-cat/internal/myerrors"
)

var ErrMissionNotFound = fmt.Errorf("mission %w", myerrors.ErrNotFound)

// MissionRepository stores mission rows only; targets live in
// TargetRepository.
type MissionRepository interface {
	Add(ctx context.Context) (models.Mission, error)
	GetById(ctx context.Context, id int64) (models.Mission, error)
	// GetByIdForUpdate reads the mission and locks its row until the
	// surrounding transaction ends.
	GetByIdForUpdate(ctx context.Context, id int64) (models.Mission, error)
	GetAll(ctx context.Context) ([]models.Mission, error)
	Assign(ctx context.Context, missionId, catId int64) error
	SetCompleted(ctx context.Context, id int64, completed bool) error
	Delete(ctx context.Context, id int64) error
}

type SQLMissionRepository struct {
	db      Querier
	dialect Dialect
}

func NewSQLMissionRepository(db Querier, dialect Dialect) *SQLMissionRepository {
	return &SQLMissionRepository{
		db:      db,
		dialect: dialect,
	}
}

func (m *SQLMissionRepository) Add(ctx context.Context) (models.Mission, error) {
	newMissionQuery := `INSERT INTO missions (cat_id, completed) VALUES (NULL, ?)`
	result, err := m.db.ExecContext(ctx, newMissionQuery, false)
	if err != nil {
		return models.Mission{}, fmt.Errorf("failed to add new mission: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Mission{}, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return models.Mission{Id: id}, nil
}

func (m *SQLMissionRepository) GetById(ctx context.Context, id int64) (models.Mission, error) {
	return m.getById(ctx, id, "")
}

func (m *SQLMissionRepository) GetByIdForUpdate(ctx context.Context, id int64) (models.Mission, error) {
	return m.getById(ctx, id, m.dialect.forUpdate())
}

func (m *SQLMissionRepository) getById(ctx context.Context, id int64, lock string) (models.Mission, error) {
	getByIdQuery := `SELECT id, cat_id, completed FROM missions WHERE id = ?` + lock
	mission, err := scanMission(m.db.QueryRowContext(ctx, getByIdQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Mission{}, ErrMissionNotFound
		}
		return models.Mission{}, fmt.Errorf("failed to get mission by id: %w", err)
	}
	return mission, nil
}

func (m *SQLMissionRepository) GetAll(ctx context.Context) ([]models.Mission, error) {
	missions := []models.Mission{}
	getAllQuery := `SELECT id, cat_id, completed FROM missions ORDER BY id`
	rows, err := m.db.QueryContext(ctx, getAllQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get all missions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		ms, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		missions = append(missions, ms)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return missions, nil
}

// Assign does not look at affected rows: reassigning the same cat changes
// nothing on MySQL. Callers check that the mission exists.
func (m *SQLMissionRepository) Assign(ctx context.Context, missionId, catId int64) error {
	assignMissionQuery := `UPDATE missions SET cat_id = ? WHERE id = ?`
	if _, err := m.db.ExecContext(ctx, assignMissionQuery, catId, missionId); err != nil {
		return fmt.Errorf("failed to assign cat to mission: %w", err)
	}
	return nil
}

func (m *SQLMissionRepository) SetCompleted(ctx context.Context, id int64, completed bool) error {
	completeQuery := `UPDATE missions SET completed = ? WHERE id = ?`
	if _, err := m.db.ExecContext(ctx, completeQuery, completed, id); err != nil {
		return fmt.Errorf("failed to update mission completion: %w", err)
	}
	return nil
}

func (m *SQLMissionRepository) Delete(ctx context.Context, id int64) error {
	deleteQuery := `DELETE FROM missions WHERE id = ?`
	res, err := m.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete mission: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted missions: %w", err)
	}
	if rows == 0 {
		return ErrMissionNotFound
	}
	return nil
}

func scanMission(row scanner) (models.Mission, error) {
	var (
		mission models.Mission
		catId   sql.NullInt64
	)
	if err := row.Scan(&mission.Id, &catId, &mission.Completed); err != nil {
		return models.Mission{}, err
	}
	if catId.Valid {
		mission.SetCatId(catId.Int64)
	}
	return mission, nil
}
