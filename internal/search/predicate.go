package search

import (
	"strconv"
	"strings"

	"job-tracker/internal/domain/job"
)

// Predicate is a composable condition over jobs. The same tree renders to a
// SQL boolean expression for the catalog store and evaluates in memory.
type Predicate interface {
	SQL(a *Args) string
	Matches(j job.Job) bool
}

// Args collects positional query arguments while a predicate renders.
type Args struct {
	values []any
}

// NewArgs seeds the list with arguments already bound by the caller.
func NewArgs(initial ...any) *Args {
	return &Args{values: append([]any(nil), initial...)}
}

func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

func (a *Args) Values() []any {
	return a.values
}

type field int

const (
	fieldTitle field = iota
	fieldDescription
	fieldCompany
	fieldLocation
	fieldCategory
	fieldEmploymentType
	fieldExperienceLevel
	fieldSource
	fieldCountryCode
	fieldIsRemote
	fieldIsActive
	fieldMinSalary
	fieldMaxSalary
)

func (f field) column() string {
	switch f {
	case fieldTitle:
		return "title"
	case fieldDescription:
		return "COALESCE(description, '')"
	case fieldCompany:
		return "company"
	case fieldLocation:
		return "COALESCE(location, '')"
	case fieldCategory:
		return "job_category"
	case fieldEmploymentType:
		return "employment_type"
	case fieldExperienceLevel:
		return "experience_level"
	case fieldSource:
		return "source"
	case fieldCountryCode:
		return "country_code"
	case fieldIsRemote:
		return "is_remote"
	case fieldIsActive:
		return "is_active"
	case fieldMinSalary:
		return "min_salary"
	case fieldMaxSalary:
		return "max_salary"
	}
	panic("search: unknown field " + strconv.Itoa(int(f)))
}

func (f field) text(j job.Job) string {
	switch f {
	case fieldTitle:
		return j.Title
	case fieldDescription:
		return j.Description
	case fieldCompany:
		return j.Company
	case fieldLocation:
		return j.Location
	case fieldCategory:
		return string(j.Category)
	case fieldEmploymentType:
		return string(j.EmploymentType)
	case fieldExperienceLevel:
		return string(j.ExperienceLevel)
	case fieldSource:
		return string(j.Source)
	case fieldCountryCode:
		return j.CountryCode
	}
	return ""
}

func (f field) boolean(j job.Job) bool {
	switch f {
	case fieldIsRemote:
		return j.IsRemote
	case fieldIsActive:
		return j.IsActive
	}
	return false
}

func (f field) integer(j job.Job) int {
	switch f {
	case fieldMinSalary:
		return j.MinSalary
	case fieldMaxSalary:
		return j.MaxSalary
	}
	return 0
}

type and []Predicate

// And joins predicates; an empty And is always true.
func And(ps ...Predicate) Predicate {
	return and(compact(ps))
}

func (p and) SQL(a *Args) string {
	if len(p) == 0 {
		return "TRUE"
	}
	if len(p) == 1 {
		return p[0].SQL(a)
	}
	parts := make([]string, 0, len(p))
	for _, c := range p {
		parts = append(parts, c.SQL(a))
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

func (p and) Matches(j job.Job) bool {
	for _, c := range p {
		if !c.Matches(j) {
			return false
		}
	}
	return true
}

type or []Predicate

// Or joins predicates; an empty Or is always false. The builder never emits
// one because empty dimensions are skipped before reaching it.
func Or(ps ...Predicate) Predicate {
	return or(compact(ps))
}

func (p or) SQL(a *Args) string {
	if len(p) == 0 {
		return "FALSE"
	}
	if len(p) == 1 {
		return p[0].SQL(a)
	}
	parts := make([]string, 0, len(p))
	for _, c := range p {
		parts = append(parts, c.SQL(a))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func (p or) Matches(j job.Job) bool {
	for _, c := range p {
		if c.Matches(j) {
			return true
		}
	}
	return false
}

// contains is a case-insensitive substring match of one needle against any
// of the given fields. The needle binds once and is reused across fields.
type contains struct {
	fields []field
	needle string
}

func (p contains) SQL(a *Args) string {
	ph := a.Add("%" + escapeLike(strings.ToLower(p.needle)) + "%")
	parts := make([]string, 0, len(p.fields))
	for _, f := range p.fields {
		parts = append(parts, "LOWER("+f.column()+") LIKE "+ph+` ESCAPE '\'`)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func (p contains) Matches(j job.Job) bool {
	needle := strings.ToLower(p.needle)
	for _, f := range p.fields {
		if strings.Contains(strings.ToLower(f.text(j)), needle) {
			return true
		}
	}
	return false
}

type in struct {
	field  field
	values []string
}

func (p in) SQL(a *Args) string {
	return p.field.column() + " = ANY(" + a.Add(p.values) + ")"
}

func (p in) Matches(j job.Job) bool {
	v := p.field.text(j)
	for _, want := range p.values {
		if v == want {
			return true
		}
	}
	return false
}

type boolEq struct {
	field field
	value bool
}

func (p boolEq) SQL(a *Args) string {
	if p.field == fieldIsActive && p.value {
		return "is_active = TRUE"
	}
	return p.field.column() + " = " + a.Add(p.value)
}

func (p boolEq) Matches(j job.Job) bool {
	return p.field.boolean(j) == p.value
}

type intCmp struct {
	field field
	gte   bool
	value int
}

func (p intCmp) SQL(a *Args) string {
	op := " <= "
	if p.gte {
		op = " >= "
	}
	return p.field.column() + op + a.Add(p.value)
}

func (p intCmp) Matches(j job.Job) bool {
	v := p.field.integer(j)
	if p.gte {
		return v >= p.value
	}
	return v <= p.value
}

func compact(ps []Predicate) []Predicate {
	out := make([]Predicate, 0, len(ps))
	for _, p := range ps {
		if p == nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
