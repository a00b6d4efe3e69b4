package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/oKhodus/spy-cat/internal/models"
	"github.com/oKhodus/spy-cat/internal/myerrors"
)

var ErrTargetNotFound = fmt.Errorf("target %w", myerrors.ErrNotFound)

type TargetRepository interface {
	Add(ctx context.Context, target models.Target) (models.Target, error)
	GetById(ctx context.Context, id int64) (models.Target, error)
	GetByIdForUpdate(ctx context.Context, id int64) (models.Target, error)
	GetByMissionId(ctx context.Context, missionId int64) ([]models.Target, error)
	GetByMissionIdForUpdate(ctx context.Context, missionId int64) ([]models.Target, error)
	GetAll(ctx context.Context) ([]models.Target, error)
	Update(ctx context.Context, id int64, update models.TargetUpdate) error
	DeleteByMissionId(ctx context.Context, missionId int64) error
}

type SQLTargetRepository struct {
	db      Querier
	dialect Dialect
}

func NewSQLTargetRepository(db Querier, dialect Dialect) *SQLTargetRepository {
	return &SQLTargetRepository{
		db:      db,
		dialect: dialect,
	}
}

const selectTargets = `SELECT id, mission_id, target_name, country, notes, completed FROM targets`

func (m *SQLTargetRepository) Add(ctx context.Context, target models.Target) (models.Target, error) {
	createTargetQuery := `INSERT INTO targets (mission_id, target_name, country, notes, completed) VALUES (?, ?, ?, ?, ?)`
	result, err := m.db.ExecContext(ctx, createTargetQuery, target.MissionId, target.Name, target.Country, target.Notes, target.Completed)
	if err != nil {
		return models.Target{}, fmt.Errorf("failed to add target: %w", err)
	}
	target.Id, err = result.LastInsertId()
	if err != nil {
		return models.Target{}, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return target, nil
}

func (m *SQLTargetRepository) GetById(ctx context.Context, id int64) (models.Target, error) {
	return m.getById(ctx, id, "")
}

func (m *SQLTargetRepository) GetByIdForUpdate(ctx context.Context, id int64) (models.Target, error) {
	return m.getById(ctx, id, m.dialect.forUpdate())
}

func (m *SQLTargetRepository) getById(ctx context.Context, id int64, lock string) (models.Target, error) {
	t, err := scanTarget(m.db.QueryRowContext(ctx, selectTargets+` WHERE id = ?`+lock, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Target{}, ErrTargetNotFound
		}
		return models.Target{}, fmt.Errorf("failed to get target by id: %w", err)
	}
	return t, nil
}

func (m *SQLTargetRepository) GetByMissionId(ctx context.Context, missionId int64) ([]models.Target, error) {
	return m.query(ctx, selectTargets+` WHERE mission_id = ? ORDER BY id`, missionId)
}

// GetByMissionIdForUpdate is a locking read, so it sees the latest committed
// rows instead of the transaction snapshot.
func (m *SQLTargetRepository) GetByMissionIdForUpdate(ctx context.Context, missionId int64) ([]models.Target, error) {
	return m.query(ctx, selectTargets+` WHERE mission_id = ? ORDER BY id`+m.dialect.forUpdate(), missionId)
}

func (m *SQLTargetRepository) GetAll(ctx context.Context) ([]models.Target, error) {
	return m.query(ctx, selectTargets+` ORDER BY mission_id, id`)
}

func (m *SQLTargetRepository) query(ctx context.Context, query string, args ...any) ([]models.Target, error) {
	targets := []models.Target{}
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get targets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return targets, nil
}

// Update writes only the fields set in update. An empty update is a no-op.
func (m *SQLTargetRepository) Update(ctx context.Context, id int64, update models.TargetUpdate) error {
	var (
		sets []string
		args []any
	)
	if update.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *update.Notes)
	}
	if update.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *update.Completed)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	updateQuery := `UPDATE targets SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if _, err := m.db.ExecContext(ctx, updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update target: %w", err)
	}
	return nil
}

func (m *SQLTargetRepository) DeleteByMissionId(ctx context.Context, missionId int64) error {
	deleteQuery := `DELETE FROM targets WHERE mission_id = ?`
	if _, err := m.db.ExecContext(ctx, deleteQuery, missionId); err != nil {
		return fmt.Errorf("failed to delete mission targets: %w", err)
	}
	return nil
}

func scanTarget(row scanner) (models.Target, error) {
	var t models.Target
	err := row.Scan(&t.Id, &t.MissionId, &t.Name, &t.Country, &t.Notes, &t.Completed)
	return t, err
}
