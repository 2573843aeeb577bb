package handler

import (
	"strconv"
	"strings"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/search"

	"github.com/gofiber/fiber/v3"
)

// familyQuery reads ?family=, defaulting to GENERAL.
func familyQuery(c fiber.Ctx) (job.Family, error) {
	raw := strings.TrimSpace(c.Query("family"))
	if raw == "" {
		return job.FamilyGeneral, nil
	}
	f, err := job.ParseFamily(raw)
	if err != nil {
		return "", badRequest(err.Error(), err)
	}
	return f, nil
}

// familiesQuery reads a comma separated ?families= list; empty means all.
func familiesQuery(c fiber.Ctx) ([]job.Family, error) {
	var out []job.Family
	for _, tok := range search.SplitList(c.Query("families")) {
		f, err := job.ParseFamily(tok)
		if err != nil {
			return nil, badRequest(err.Error(), err)
		}
		out = append(out, f)
	}
	return out, nil
}

// jobRef reads the :family/:id path pair.
func jobRef(c fiber.Ctx) (job.Ref, error) {
	f, err := job.ParseFamily(c.Params("family"))
	if err != nil {
		return job.Ref{}, badRequest(err.Error(), err)
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return job.Ref{}, badRequest("job id must be a positive integer", err)
	}
	return job.Ref{Family: f, ID: id}, nil
}

func categoryParam(family job.Family, raw string) (*job.Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	cat, err := job.ParseCategory(family, raw)
	if err != nil {
		return nil, badRequest(err.Error(), err)
	}
	return &cat, nil
}

// pageRequest reads page, size, sort and direction.
func pageRequest(c fiber.Ctx) (search.PageRequest, error) {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return search.PageRequest{}, err
	}
	size, err := queryInt(c, "size", search.DefaultPageSize)
	if err != nil {
		return search.PageRequest{}, err
	}
	s, err := search.ParseSort(c.Query("sort"), c.Query("direction"))
	if err != nil {
		return search.PageRequest{}, badRequest(err.Error(), err)
	}
	pr, err := search.NewPageRequest(page, size, s)
	if err != nil {
		return search.PageRequest{}, badRequest(err.Error(), err)
	}
	return pr, nil
}

func queryInt(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, badRequest(key+" must be an integer", err)
	}
	return v, nil
}
