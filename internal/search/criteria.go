package search

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"job-tracker/internal/domain/job"
)

var ErrInvalidFilter = errors.New("invalid filter")

// Criteria holds the optional filter dimensions. A nil or empty slice and a
// nil pointer mean the dimension was not supplied.
type Criteria struct {
	Keywords         []string
	Categories       []job.Category
	Locations        []string
	EmploymentTypes  []job.EmploymentType
	ExperienceLevels []job.ExperienceLevel
	IsRemote         *bool
	MinSalary        *int
	MaxSalary        *int
	Companies        []string
	Sources          []job.Source
	Positions        []string
	Skills           []string
	CountryCodes     []string
}

// RawCriteria is the unparsed form as it arrives on a query string.
// List values are comma separated.
type RawCriteria struct {
	Keywords         string
	Categories       string
	Locations        string
	EmploymentTypes  string
	ExperienceLevels string
	IsRemote         string
	MinSalary        string
	MaxSalary        string
	Companies        string
	Sources          string
	Positions        string
	Skills           string
	CountryCodes     string
}

// SplitList splits on commas, trims and drops empty entries.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseCriteria validates raw input for the given family. Unknown enum tokens
// and malformed numbers fail with ErrInvalidFilter.
func ParseCriteria(family job.Family, raw RawCriteria) (Criteria, error) {
	var c Criteria
	var err error

	c.Keywords = SplitList(raw.Keywords)
	c.Locations = SplitList(raw.Locations)
	c.Companies = SplitList(raw.Companies)
	c.Positions = SplitList(raw.Positions)
	c.Skills = SplitList(raw.Skills)

	for _, tok := range SplitList(raw.Categories) {
		cat, perr := job.ParseCategory(family, tok)
		if perr != nil {
			return Criteria{}, fmt.Errorf("%w: category %q", ErrInvalidFilter, tok)
		}
		c.Categories = append(c.Categories, cat)
	}
	for _, tok := range SplitList(raw.EmploymentTypes) {
		et, perr := job.ParseEmploymentType(tok)
		if perr != nil {
			return Criteria{}, fmt.Errorf("%w: employmentType %q", ErrInvalidFilter, tok)
		}
		c.EmploymentTypes = append(c.EmploymentTypes, et)
	}
	for _, tok := range SplitList(raw.ExperienceLevels) {
		lvl, perr := job.ParseExperienceLevel(tok)
		if perr != nil {
			return Criteria{}, fmt.Errorf("%w: experienceLevel %q", ErrInvalidFilter, tok)
		}
		c.ExperienceLevels = append(c.ExperienceLevels, lvl)
	}
	for _, tok := range SplitList(raw.Sources) {
		src, perr := job.ParseSource(tok)
		if perr != nil {
			return Criteria{}, fmt.Errorf("%w: source %q", ErrInvalidFilter, tok)
		}
		c.Sources = append(c.Sources, src)
	}
	for _, tok := range SplitList(raw.CountryCodes) {
		c.CountryCodes = append(c.CountryCodes, strings.ToUpper(tok))
	}

	if c.IsRemote, err = parseBool("isRemote", raw.IsRemote); err != nil {
		return Criteria{}, err
	}
	if c.MinSalary, err = parseInt("minSalary", raw.MinSalary); err != nil {
		return Criteria{}, err
	}
	if c.MaxSalary, err = parseInt("maxSalary", raw.MaxSalary); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

func parseBool(name, raw string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", ErrInvalidFilter, name)
	}
	return &v, nil
}

func parseInt(name, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidFilter, name)
	}
	return &v, nil
}

// Build turns criteria into a predicate. The active-only condition is always
// present; every supplied dimension is an OR over its values and the
// dimensions are ANDed together.
func Build(c Criteria) Predicate {
	ps := []Predicate{boolEq{field: fieldIsActive, value: true}}

	if len(c.Keywords) > 0 {
		ps = append(ps, anyContains(c.Keywords, fieldTitle, fieldDescription, fieldCompany))
	}
	if len(c.Categories) > 0 {
		ps = append(ps, in{field: fieldCategory, values: toStrings(c.Categories)})
	}
	if len(c.Locations) > 0 {
		ps = append(ps, anyContains(c.Locations, fieldLocation))
	}
	if len(c.EmploymentTypes) > 0 {
		ps = append(ps, in{field: fieldEmploymentType, values: toStrings(c.EmploymentTypes)})
	}
	if len(c.ExperienceLevels) > 0 {
		ps = append(ps, in{field: fieldExperienceLevel, values: toStrings(c.ExperienceLevels)})
	}
	if c.IsRemote != nil {
		ps = append(ps, boolEq{field: fieldIsRemote, value: *c.IsRemote})
	}
	// Salary bounds test range overlap: a job paying 50-80 matches min=70.
	if c.MinSalary != nil {
		ps = append(ps, intCmp{field: fieldMaxSalary, gte: true, value: *c.MinSalary})
	}
	if c.MaxSalary != nil {
		ps = append(ps, intCmp{field: fieldMinSalary, gte: false, value: *c.MaxSalary})
	}
	if len(c.Companies) > 0 {
		ps = append(ps, anyContains(c.Companies, fieldCompany))
	}
	if len(c.Sources) > 0 {
		ps = append(ps, in{field: fieldSource, values: toStrings(c.Sources)})
	}
	if len(c.Positions) > 0 {
		ps = append(ps, anyContains(c.Positions, fieldTitle))
	}
	if len(c.Skills) > 0 {
		ps = append(ps, anyContains(c.Skills, fieldTitle, fieldDescription))
	}
	if len(c.CountryCodes) > 0 {
		ps = append(ps, in{field: fieldCountryCode, values: c.CountryCodes})
	}
	return And(ps...)
}

// Active is the predicate every listing starts from.
func Active() Predicate {
	return boolEq{field: fieldIsActive, value: true}
}

// InCategory restricts to one category; used by the category browse and
// search routes.
func InCategory(cat job.Category) Predicate {
	return in{field: fieldCategory, values: []string{string(cat)}}
}

// KeywordSearch matches any keyword against title, description or company.
func KeywordSearch(keywords []string) Predicate {
	if len(keywords) == 0 {
		return nil
	}
	return anyContains(keywords, fieldTitle, fieldDescription, fieldCompany)
}

func anyContains(values []string, fields ...field) Predicate {
	ps := make([]Predicate, 0, len(values))
	for _, v := range values {
		ps = append(ps, contains{fields: fields, needle: v})
	}
	return Or(ps...)
}

func toStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
