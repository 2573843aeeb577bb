package search

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"job-tracker/internal/domain/job"
)

var ErrInvalidSort = errors.New("invalid sort")

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

type sortKey struct {
	name   string
	column string
	less   func(a, b job.Job) bool
}

var sortKeys = []sortKey{
	{"postedAt", "posted_at", func(a, b job.Job) bool { return timePtrLess(a.PostedAt, b.PostedAt) }},
	{"createdAt", "created_at", func(a, b job.Job) bool { return a.CreatedAt.Before(b.CreatedAt) }},
	{"updatedAt", "updated_at", func(a, b job.Job) bool { return a.UpdatedAt.Before(b.UpdatedAt) }},
	{"title", "title", func(a, b job.Job) bool { return a.Title < b.Title }},
	{"company", "company", func(a, b job.Job) bool { return a.Company < b.Company }},
	{"location", "location", func(a, b job.Job) bool { return a.Location < b.Location }},
	{"minSalary", "min_salary", func(a, b job.Job) bool { return a.MinSalary < b.MinSalary }},
	{"maxSalary", "max_salary", func(a, b job.Job) bool { return a.MaxSalary < b.MaxSalary }},
	{"id", "id", func(a, b job.Job) bool { return a.ID < b.ID }},
}

// Sort is a validated ordering. The zero value is not usable; obtain one
// from ParseSort or DefaultSort.
type Sort struct {
	key       *sortKey
	Direction Direction
}

func DefaultSort() Sort {
	s, _ := ParseSort("", "")
	return s
}

// ParseSort accepts the API field name (case-insensitive, snake_case also
// accepted) and ASC/DESC. Empty values fall back to postedAt DESC.
func ParseSort(fieldName, direction string) (Sort, error) {
	fieldName = strings.TrimSpace(fieldName)
	if fieldName == "" {
		fieldName = "postedAt"
	}
	var key *sortKey
	wanted := strings.ToLower(strings.ReplaceAll(fieldName, "_", ""))
	for i := range sortKeys {
		if strings.ToLower(sortKeys[i].name) == wanted {
			key = &sortKeys[i]
			break
		}
	}
	if key == nil {
		return Sort{}, fmt.Errorf("%w: unknown field %q", ErrInvalidSort, fieldName)
	}

	dir := Desc
	switch strings.ToUpper(strings.TrimSpace(direction)) {
	case "":
	case "ASC":
		dir = Asc
	case "DESC":
	default:
		return Sort{}, fmt.Errorf("%w: unknown direction %q", ErrInvalidSort, direction)
	}
	return Sort{key: key, Direction: dir}, nil
}

func (s Sort) resolved() Sort {
	if s.key == nil {
		return DefaultSort()
	}
	return s
}

func (s Sort) Field() string {
	return s.resolved().key.name
}

// OrderBy renders the ORDER BY body. Nulls sort last in both directions and
// id DESC breaks ties so pages stay stable.
func (s Sort) OrderBy() string {
	s = s.resolved()
	clause := s.key.column + " " + string(s.Direction) + " NULLS LAST"
	if s.key.column != "id" {
		clause += ", id DESC"
	}
	return clause
}

// Less orders two jobs the same way OrderBy does in SQL.
func (s Sort) Less(a, b job.Job) bool {
	s = s.resolved()
	if s.key.name == "postedAt" && (a.PostedAt == nil) != (b.PostedAt == nil) {
		return a.PostedAt != nil
	}
	if s.key.less(a, b) {
		return s.Direction == Asc
	}
	if s.key.less(b, a) {
		return s.Direction == Desc
	}
	if s.key.name == "id" {
		return false
	}
	return a.ID > b.ID
}

// String is a stable signature used in cache keys.
func (s Sort) String() string {
	s = s.resolved()
	return s.key.name + "," + string(s.Direction)
}

func timePtrLess(a, b *time.Time) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Before(*b)
}
