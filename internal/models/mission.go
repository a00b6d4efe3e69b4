package models

const (
	MinTargetsPerMission = 1
	MaxTargetsPerMission = 3
)

type Mission struct {
	Id        int64    `json:"id" db:"id"`
	CatId     *int64   `json:"cat_id" db:"cat_id"`
	Completed bool     `json:"completed" db:"completed"`
	Targets   []Target `json:"targets"`
}

func (m *Mission) SetCatId(id int64) {
	m.CatId = &id
}

func (m Mission) IsAssigned() bool {
	return m.CatId != nil
}

type MissionCreate struct {
	Targets []TargetCreate `json:"targets" binding:"dive"`
}
