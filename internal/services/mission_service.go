package services

import (
	"context"
	"log/slog"

	"github.com/oKhodus/spy-cat/internal/models"
	"github.com/oKhodus/spy-cat/internal/myerrors"
	"github.com/oKhodus/spy-cat/internal/repositories"
)

type MissionService interface {
	Add(ctx context.Context, mission models.MissionCreate) (models.Mission, error)
	GetById(ctx context.Context, id int64) (models.Mission, error)
	GetAll(ctx context.Context) ([]models.Mission, error)
	Assign(ctx context.Context, missionId, catId int64) error
	UpdateTarget(ctx context.Context, targetId int64, update models.TargetUpdate) error
	Delete(ctx context.Context, id int64) error
}

type DefaultMissionService struct {
	store  repositories.Store
	logger *slog.Logger
}

func NewDefaultMissionService(store repositories.Store, logger *slog.Logger) *DefaultMissionService {
	return &DefaultMissionService{
		store:  store,
		logger: logger,
	}
}

// Add stores the mission and all of its targets in one transaction.
func (d *DefaultMissionService) Add(ctx context.Context, create models.MissionCreate) (models.Mission, error) {
	count := len(create.Targets)
	if count < models.MinTargetsPerMission || count > models.MaxTargetsPerMission {
		return models.Mission{}, myerrors.InvalidTargetCount(count, models.MinTargetsPerMission, models.MaxTargetsPerMission)
	}

	var saved models.Mission
	err := d.store.WithTransaction(ctx, func(r repositories.Repositories) error {
		sm, err := r.Missions.Add(ctx)
		if err != nil {
			return err
		}
		sm.Targets = make([]models.Target, 0, count)
		for _, t := range create.Targets {
			nt, err := r.Targets.Add(ctx, t.ToTarget(sm.Id))
			if err != nil {
				return err
			}
			sm.Targets = append(sm.Targets, nt)
		}
		saved = sm
		return nil
	})
	if err != nil {
		return models.Mission{}, err
	}
	d.logger.InfoContext(ctx, "mission.created", "mission_id", saved.Id, "targets", count)
	return saved, nil
}

func (d *DefaultMissionService) GetById(ctx context.Context, id int64) (models.Mission, error) {
	var mission models.Mission
	err := d.store.WithTransaction(ctx, func(r repositories.Repositories) error {
		m, err := r.Missions.GetById(ctx, id)
		if err != nil {
			return notFound(err, "mission", id)
		}
		m.Targets, err = r.Targets.GetByMissionId(ctx, id)
		if err != nil {
			return err
		}
		mission = m
		return nil
	})
	if err != nil {
		return models.Mission{}, err
	}
	return mission, nil
}

// GetAll reads missions and targets in one transaction so that every
// mission comes with its complete target set.
func (d *DefaultMissionService) GetAll(ctx context.Context) ([]models.Mission, error) {
	var missions []models.Mission
	err := d.store.WithTransaction(ctx, func(r repositories.Repositories) error {
		ms, err := r.Missions.GetAll(ctx)
		if err != nil {
			return err
		}
		targets, err := r.Targets.GetAll(ctx)
		if err != nil {
			return err
		}
		byMission := make(map[int64][]models.Target, len(ms))
		for _, t := range targets {
			byMission[t.MissionId] = append(byMission[t.MissionId], t)
		}
		for i := range ms {
			ms[i].Targets = byMission[ms[i].Id]
			if ms[i].Targets == nil {
				ms[i].Targets = []models.Target{}
			}
		}
		missions = ms
		return nil
	})
	if err != nil {
		return nil, err
	}
	return missions, nil
}

// Assign overwrites the mission's cat. A cat may hold several missions and
// an assigned mission may be reassigned.
func (d *DefaultMissionService) Assign(ctx context.Context, missionId, catId int64) error {
	err := d.store.WithTransaction(ctx, func(r repositories.Repositories) error {
		if _, err := r.Missions.GetByIdForUpdate(ctx, missionId); err != nil {
			return notFound(err, "mission", missionId)
		}
		if _, err := r.Cats.GetById(ctx, catId); err != nil {
			return notFound(err, "cat", catId)
		}
		return r.Missions.Assign(ctx, missionId, catId)
	})
	if err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "mission.assigned", "mission_id", missionId, "cat_id", catId)
	return nil
}

// UpdateTarget applies a patch to an unlocked target and recomputes the
// mission's completion from the stored targets. A target is locked once it
// or its mission is completed; a locked target rejects every patch.
func (d *DefaultMissionService) UpdateTarget(ctx context.Context, targetId int64, update models.TargetUpdate) error {
	var missionCompleted bool
	var missionId int64
	err := d.store.WithTransaction(ctx, func(r repositories.Repositories) error {
		target, err := r.Targets.GetById(ctx, targetId)
		if err != nil {
			return notFound(err, "target", targetId)
		}
		// lock order is mission then target, same as Delete
		mission, err := r.Missions.GetByIdForUpdate(ctx, target.MissionId)
		if err != nil {
			return notFound(err, "mission", target.MissionId)
		}
		target, err = r.Targets.GetByIdForUpdate(ctx, targetId)
		if err != nil {
			return notFound(err, "target", targetId)
		}
		if target.Completed || mission.Completed {
			return myerrors.TargetLocked(targetId)
		}

		if err := r.Targets.Update(ctx, targetId, update); err != nil {
			return err
		}

		// a plain read here would see the snapshot taken before the mission
		// lock was granted
		targets, err := r.Targets.GetByMissionIdForUpdate(ctx, mission.Id)
		if err != nil {
			return err
		}
		missionId = mission.Id
		missionCompleted = models.AllCompleted(targets)
		return r.Missions.SetCompleted(ctx, mission.Id, missionCompleted)
	})
	if err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "target.updated",
		"target_id", targetId,
		"mission_id", missionId,
		"mission_completed", missionCompleted,
	)
	return nil
}

// Delete removes an unassigned mission together with its targets.
func (d *DefaultMissionService) Delete(ctx context.Context, id int64) error {
	err := d.store.WithTransaction(ctx, func(r repositories.Repositories) error {
		mission, err := r.Missions.GetByIdForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "mission", id)
		}
		if mission.IsAssigned() {
			return myerrors.MissionAssigned(id)
		}
		if err := r.Targets.DeleteByMissionId(ctx, id); err != nil {
			return err
		}
		return notFound(r.Missions.Delete(ctx, id), "mission", id)
	})
	if err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "mission.deleted", "mission_id", id)
	return nil
}
