package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// Repositories groups the repositories bound to one connection or one
// transaction.
type Repositories struct {
	Cats     CatRepository
	Missions MissionRepository
	Targets  TargetRepository
}

// Store hands out repositories. Work passed to WithTransaction is committed
// when fn returns nil and rolled back otherwise.
type Store interface {
	Repositories() Repositories
	WithTransaction(ctx context.Context, fn func(Repositories) error) error
}

type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{
		db:      db,
		dialect: dialect,
	}
}

func (s *SQLStore) Repositories() Repositories {
	return s.bind(s.db)
}

func (s *SQLStore) WithTransaction(ctx context.Context, fn func(Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(s.bind(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *SQLStore) bind(q Querier) Repositories {
	return Repositories{
		Cats:     NewSQLCatRepository(q),
		Missions: NewSQLMissionRepository(q, s.dialect),
		Targets:  NewSQLTargetRepository(q, s.dialect),
	}
}
