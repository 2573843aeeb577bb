package seeder

import (
	"context"
	"fmt"
	"time"

	"job-tracker/internal/database"
	"job-tracker/internal/domain/job"
)

type sampleJob struct {
	ExternalID      string
	Category        job.Category
	Source          job.Source
	Company         string
	Title           string
	Location        string
	EmploymentType  job.EmploymentType
	ExperienceLevel job.ExperienceLevel
	Description     string
	IsRemote        bool
	MinSalary       int
	MaxSalary       int
	CountryCode     string
	Age             time.Duration
}

var sampleJobs = map[job.Family][]sampleJob{
	job.FamilyGeneral: {
		{"sample-gen-1", job.CategoryDiscover, job.SourceLinkedIn, "Acme", "Backend Engineer (Go)", "Jakarta, ID",
			job.EmploymentFullTime, job.ExperienceMid, "Build Go services on PostgreSQL and Redis.", false, 20000, 35000, "ID", 2 * time.Hour},
		{"sample-gen-2", job.CategoryDiscover, job.SourceIndeed, "Globex", "Site Reliability Engineer", "Remote",
			job.EmploymentContract, job.ExperienceSenior, "Own on-call, observability and Kubernetes clusters.", true, 30000, 50000, "SG", 26 * time.Hour},
		{"sample-gen-3", job.CategoryStartupLaunchpad, job.SourceCompanyWebsite, "Initech", "Founding Engineer", "Bandung, ID",
			job.EmploymentFullTime, job.ExperienceSenior, "First engineering hire; full stack with Go and React.", false, 0, 0, "ID", 5 * 24 * time.Hour},
	},
	job.FamilyIntern: {
		{"sample-int-1", job.CategoryDiscover, job.SourceLinkedIn, "Acme", "Software Engineering Intern", "Jakarta, ID",
			job.EmploymentInternship, job.ExperienceEntry, "Summer internship on the platform team.", false, 3000, 5000, "ID", 3 * time.Hour},
		{"sample-int-2", job.CategoryStartupLaunchpad, job.SourceOther, "Hooli", "Data Intern", "Remote",
			job.EmploymentInternship, job.ExperienceEntry, "Help build analytics pipelines.", true, 0, 0, "US", 9 * 24 * time.Hour},
	},
	job.FamilyFulltime: {
		{"sample-ft-1", job.CategoryDiscover, job.SourceGlassdoor, "Globex", "Frontend Engineer", "Singapore",
			job.EmploymentFullTime, job.ExperienceJunior, "TypeScript and design systems.", false, 25000, 40000, "SG", time.Hour},
		{"sample-ft-2", job.CategoryDiscover, job.SourceAdzuna, "Hooli", "Engineering Manager", "Remote",
			job.EmploymentFullTime, job.ExperienceLead, "Lead a team of eight backend engineers.", true, 60000, 90000, "US", 4 * 24 * time.Hour},
	},
}

// SampleJobsSeeder inserts a few active postings into every family table.
// Re-running it is a no-op thanks to the external_id unique key.
type SampleJobsSeeder struct{}

func (SampleJobsSeeder) Name() string { return "sample_jobs" }

func (SampleJobsSeeder) Run(ctx context.Context, db database.DB) error {
	now := time.Now().UTC()

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, family := range job.Families() {
			table, err := family.Table()
			if err != nil {
				return err
			}
			if err := EnsureTableColumns(ctx, db, table,
				"external_id", "job_category", "source", "company", "title", "apply_url", "posted_at",
				"employment_type", "experience_level", "is_remote", "min_salary", "max_salary", "country_code",
			); err != nil {
				return err
			}

			for _, it := range sampleJobs[family] {
				posted := now.Add(-it.Age)
				_, err := tx.Exec(ctx, fmt.Sprintf(`
					INSERT INTO %s (external_id, job_category, source, company, title, location, employment_type,
						experience_level, description, apply_url, posted_at, is_remote, min_salary, max_salary, country_code)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
					ON CONFLICT (external_id) DO NOTHING`, table),
					it.ExternalID, string(it.Category), string(it.Source), it.Company, it.Title, it.Location,
					string(it.EmploymentType), string(it.ExperienceLevel), it.Description,
					"https://example.com/jobs/"+it.ExternalID, posted, it.IsRemote, it.MinSalary, it.MaxSalary, it.CountryCode,
				)
				if err != nil {
					return fmt.Errorf("insert %s into %s: %w", it.ExternalID, table, err)
				}
			}
		}
		return nil
	})
}
