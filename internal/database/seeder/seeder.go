// Package seeder loads sample rows for local development. Job population in
// real deployments happens outside this service.
package seeder

import (
	"context"

	"job-tracker/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
