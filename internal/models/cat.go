package models

type Cat struct {
	Id                int64   `json:"id" db:"id"`
	Name              string  `json:"name" db:"cat_name"`
	YearsOfExperience int     `json:"experience_years" db:"years_of_experience"`
	Breed             string  `json:"breed" db:"breed"`
	Salary            float64 `json:"salary" db:"salary"`
}

// CatCreate is the request body of a new cat. Numbers are pointers so that
// an explicit zero passes the required check.
type CatCreate struct {
	Name              string   `json:"name" binding:"required,max=50"`
	YearsOfExperience *int     `json:"experience_years" binding:"required"`
	Breed             string   `json:"breed" binding:"required,max=120"`
	Salary            *float64 `json:"salary" binding:"required"`
}

func (c CatCreate) ToCat() Cat {
	cat := Cat{
		Name:  c.Name,
		Breed: c.Breed,
	}
	if c.YearsOfExperience != nil {
		cat.YearsOfExperience = *c.YearsOfExperience
	}
	if c.Salary != nil {
		cat.Salary = *c.Salary
	}
	return cat
}

type CatUpdate struct {
	Salary *float64 `json:"salary" binding:"required"`
}
