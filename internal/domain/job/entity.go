package job

import (
	"strconv"
	"time"
)

type Job struct {
	ID              int64
	Family          Family
	ExternalID      string
	Category        Category
	Source          Source
	Company         string
	CompanyLogo     string
	Title           string
	Location        string
	Department      string
	EmploymentType  EmploymentType
	Description     string
	ApplyURL        string
	PostedAt        *time.Time
	IsRemote        bool
	ExperienceLevel ExperienceLevel
	MinSalary       int
	MaxSalary       int
	IsActive        bool
	CountryCode     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Ref returns the family-tagged reference of the job. Ids collide across
// families, so every overlay lookup must go through the Ref.
func (j Job) Ref() Ref {
	return Ref{Family: j.Family, ID: j.ID}
}

type Ref struct {
	Family Family
	ID     int64
}

func (r Ref) Valid() bool {
	return r.Family.Valid() && r.ID > 0
}

func (r Ref) String() string {
	return string(r.Family) + ":" + strconv.FormatInt(r.ID, 10)
}
