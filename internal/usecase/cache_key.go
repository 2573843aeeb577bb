package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/tracking"
	"job-tracker/internal/search"
)

type listCacheKeyInput struct {
	Page     int      `json:"page"`
	Size     int      `json:"size"`
	Sort     string   `json:"sort"`
	Statuses []string `json:"statuses,omitempty"`
}

// listCacheParams hashes the listing parameters. Statuses are sorted so
// "OFFER,APPLIED" and "APPLIED,OFFER" share one entry.
func listCacheParams(pr search.PageRequest, statuses []tracking.Status) string {
	st := make([]string, 0, len(statuses))
	for _, s := range statuses {
		st = append(st, string(s))
	}
	sort.Strings(st)

	in := listCacheKeyInput{
		Page:     pr.Page,
		Size:     pr.Limit(),
		Sort:     pr.Sort.String(),
		Statuses: st,
	}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func familiesCacheParams(families []job.Family) string {
	if len(families) == 0 {
		return "all"
	}
	parts := make([]string, 0, len(families))
	for _, f := range families {
		parts = append(parts, string(f))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
