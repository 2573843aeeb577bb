package migration

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadMigrations_OrdersAndSkipsUnknownFiles(t *testing.T) {
	files := fstest.MapFS{
		"V2__second.sql": {Data: []byte("SELECT 2;")},
		"V1__first.sql":  {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("notes")},
	}

	migs, err := loadMigrations(files)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) != 2 || migs[0].Version != 1 || migs[1].Name != "second" {
		t.Fatalf("unexpected migrations %+v", migs)
	}
	if migs[0].Checksum == migs[1].Checksum {
		t.Fatalf("checksums must differ")
	}
}

func TestLoadMigrations_RejectsDuplicatesAndEmpty(t *testing.T) {
	dup := fstest.MapFS{
		"V1__a.sql": {Data: []byte("SELECT 1;")},
		"V1__b.sql": {Data: []byte("SELECT 1;")},
	}
	if _, err := loadMigrations(dup); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	empty := fstest.MapFS{"V1__a.sql": {Data: []byte("  \n")}}
	if _, err := loadMigrations(empty); err == nil {
		t.Fatalf("expected empty migration error")
	}
}

func TestEmbeddedSchema(t *testing.T) {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	migs, err := loadMigrations(sub)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) == 0 || migs[0].Version != 1 {
		t.Fatalf("expected embedded V1, got %+v", migs)
	}
	for _, table := range []string{"jobs", "intern_jobs", "fulltime_jobs", "saved_jobs", "applied_jobs"} {
		if !strings.Contains(migs[0].SQL, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Fatalf("schema is missing table %s", table)
		}
	}
	if !strings.Contains(migs[0].SQL, "UNIQUE (user_id, job_family, job_id)") {
		t.Fatalf("saved/applied uniqueness must include the family")
	}
}
