package job

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownFamily = errors.New("unknown job family")
	ErrUnknownValue  = errors.New("unknown enum value")
)

// Family identifies one of the physically separate job collections.
type Family string

const (
	FamilyGeneral  Family = "GENERAL"
	FamilyIntern   Family = "INTERN"
	FamilyFulltime Family = "FULLTIME"
)

var allFamilies = []Family{FamilyGeneral, FamilyIntern, FamilyFulltime}

func Families() []Family {
	out := make([]Family, len(allFamilies))
	copy(out, allFamilies)
	return out
}

func (f Family) Valid() bool {
	switch f {
	case FamilyGeneral, FamilyIntern, FamilyFulltime:
		return true
	}
	return false
}

// Table is the storage table backing the family.
func (f Family) Table() (string, error) {
	switch f {
	case FamilyGeneral:
		return "jobs", nil
	case FamilyIntern:
		return "intern_jobs", nil
	case FamilyFulltime:
		return "fulltime_jobs", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFamily, string(f))
}

// ParseFamily accepts the stored tag as well as the route-friendly aliases.
// An empty value resolves to the general family.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "general", "legacy", "job", "jobs":
		return FamilyGeneral, nil
	case "intern", "interns", "internship":
		return FamilyIntern, nil
	case "fulltime", "full-time", "full_time":
		return FamilyFulltime, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
}

type Category string

const (
	CategoryDiscover         Category = "DISCOVER"
	CategoryStartupLaunchpad Category = "STARTUP_LAUNCHPAD"
)

var categoriesByFamily = map[Family][]Category{
	FamilyGeneral:  {CategoryDiscover, CategoryStartupLaunchpad},
	FamilyIntern:   {CategoryDiscover, CategoryStartupLaunchpad},
	FamilyFulltime: {CategoryDiscover, CategoryStartupLaunchpad},
}

func CategoriesOf(f Family) []Category {
	return categoriesByFamily[f]
}

func ParseCategory(f Family, s string) (Category, error) {
	tok := normalizeToken(s)
	for _, c := range categoriesByFamily[f] {
		if string(c) == tok {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: category %q", ErrUnknownValue, s)
}

type Source string

const (
	SourceAdzuna         Source = "ADZUNA"
	SourceSkillCareerHub Source = "SKILLCAREERHUB"
	SourceLinkedIn       Source = "LINKEDIN"
	SourceIndeed         Source = "INDEED"
	SourceCompanyWebsite Source = "COMPANY_WEBSITE"
	SourceGlassdoor      Source = "GLASSDOOR"
	SourceOther          Source = "OTHER"
)

var allSources = []Source{
	SourceAdzuna, SourceSkillCareerHub, SourceLinkedIn, SourceIndeed,
	SourceCompanyWebsite, SourceGlassdoor, SourceOther,
}

func ParseSource(s string) (Source, error) {
	tok := normalizeToken(s)
	for _, v := range allSources {
		if string(v) == tok {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: source %q", ErrUnknownValue, s)
}

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "FULL_TIME"
	EmploymentPartTime   EmploymentType = "PART_TIME"
	EmploymentContract   EmploymentType = "CONTRACT"
	EmploymentInternship EmploymentType = "INTERNSHIP"
	EmploymentTemporary  EmploymentType = "TEMPORARY"
	EmploymentFreelance  EmploymentType = "FREELANCE"
)

var allEmploymentTypes = []EmploymentType{
	EmploymentFullTime, EmploymentPartTime, EmploymentContract,
	EmploymentInternship, EmploymentTemporary, EmploymentFreelance,
}

func ParseEmploymentType(s string) (EmploymentType, error) {
	tok := normalizeToken(s)
	for _, v := range allEmploymentTypes {
		if string(v) == tok {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: employment type %q", ErrUnknownValue, s)
}

type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "ENTRY"
	ExperienceJunior    ExperienceLevel = "JUNIOR"
	ExperienceMid       ExperienceLevel = "MID"
	ExperienceSenior    ExperienceLevel = "SENIOR"
	ExperienceLead      ExperienceLevel = "LEAD"
	ExperienceExecutive ExperienceLevel = "EXECUTIVE"
)

var allExperienceLevels = []ExperienceLevel{
	ExperienceEntry, ExperienceJunior, ExperienceMid,
	ExperienceSenior, ExperienceLead, ExperienceExecutive,
}

func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	tok := normalizeToken(s)
	for _, v := range allExperienceLevels {
		if string(v) == tok {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: experience level %q", ErrUnknownValue, s)
}

// normalizeToken upper-cases an enum token and folds "-" and spaces to "_",
// so "full-time" and "Full Time" both resolve to FULL_TIME.
func normalizeToken(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
