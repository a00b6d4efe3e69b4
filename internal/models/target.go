package models

type Target struct {
	Id        int64  `json:"id" db:"id"`
	MissionId int64  `json:"mission_id" db:"mission_id"`
	Name      string `json:"name" db:"target_name"`
	Country   string `json:"country" db:"country"`
	Notes     string `json:"notes" db:"notes"`
	Completed bool   `json:"completed" db:"completed"`
}

type TargetCreate struct {
	Name    string `json:"name" binding:"required,max=255"`
	Country string `json:"country" binding:"required,max=255"`
	Notes   string `json:"notes"`
}

func (t TargetCreate) ToTarget(missionId int64) Target {
	return Target{
		MissionId: missionId,
		Name:      t.Name,
		Country:   t.Country,
		Notes:     t.Notes,
	}
}

// TargetUpdate carries the optional fields of a target patch; nil means
// "leave unchanged".
type TargetUpdate struct {
	Notes     *string `json:"notes"`
	Completed *bool   `json:"completed"`
}

// AllCompleted reports whether every target is completed. An empty set is
// never complete.
func AllCompleted(targets []Target) bool {
	if len(targets) == 0 {
		return false
	}
	for _, t := range targets {
		if !t.Completed {
			return false
		}
	}
	return true
}
