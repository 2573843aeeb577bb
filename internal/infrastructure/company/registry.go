package company

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Registry is the fixed list of companies users may follow.
type Registry struct {
	names []string
	set   map[string]struct{}
}

type entry struct {
	Company *string `json:"company"`
}

// Load reads a JSON array of {"company": "..."} objects. A missing file
// yields an empty registry and a warning; a malformed one is an error.
func Load(path string, log *zap.Logger) (*Registry, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("companies file not found, registry is empty", zap.String("path", path))
			return New(nil), nil
		}
		return nil, err
	}
	defer f.Close()

	r, err := Parse(f)
	if err != nil {
		return nil, err
	}
	log.Info("companies loaded", zap.String("path", path), zap.Int("count", len(r.names)))
	return r, nil
}

func Parse(rd io.Reader) (*Registry, error) {
	var entries []entry
	if err := json.NewDecoder(rd).Decode(&entries); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Company == nil {
			continue
		}
		names = append(names, *e.Company)
	}
	return New(names), nil
}

// New trims, de-duplicates and sorts names. Blank names are dropped.
func New(names []string) *Registry {
	r := &Registry{set: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := r.set[n]; ok {
			continue
		}
		r.set[n] = struct{}{}
		r.names = append(r.names, n)
	}
	sort.Strings(r.names)
	return r
}

func (r *Registry) IsValidCompany(name string) bool {
	_, ok := r.set[strings.TrimSpace(name)]
	return ok
}

// ListCompanies returns a copy of the sorted names.
func (r *Registry) ListCompanies() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
