package handler

import (
	"errors"

	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/search"
	"job-tracker/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const defaultFeaturedSize = 6

type JobsHandler struct {
	uc usecase.JobsUsecase
}

func NewJobsHandler(uc usecase.JobsUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) HandleBrowse(c fiber.Ctx) error {
	return h.browse(c, "")
}

func (h *JobsHandler) HandleBrowseCategory(c fiber.Ctx) error {
	return h.browse(c, c.Params("category"))
}

func (h *JobsHandler) browse(c fiber.Ctx, rawCategory string) error {
	family, err := familyQuery(c)
	if err != nil {
		return err
	}
	category, err := categoryParam(family, rawCategory)
	if err != nil {
		return err
	}
	pr, err := pageRequest(c)
	if err != nil {
		return err
	}

	page, err := h.uc.Browse(c.Context(), middleware.IdentityFrom(c), family, category, pr)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewJobPageResponse(page))
}

func (h *JobsHandler) HandleSearch(c fiber.Ctx) error {
	return h.search(c, "")
}

func (h *JobsHandler) HandleSearchCategory(c fiber.Ctx) error {
	return h.search(c, c.Params("category"))
}

func (h *JobsHandler) search(c fiber.Ctx, rawCategory string) error {
	family, err := familyQuery(c)
	if err != nil {
		return err
	}
	category, err := categoryParam(family, rawCategory)
	if err != nil {
		return err
	}
	pr, err := pageRequest(c)
	if err != nil {
		return err
	}

	keywords := search.SplitList(c.Query("keywords"))
	page, err := h.uc.Search(c.Context(), middleware.IdentityFrom(c), family, keywords, category, pr)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewJobPageResponse(page))
}

func (h *JobsHandler) HandleFilter(c fiber.Ctx) error {
	family, err := familyQuery(c)
	if err != nil {
		return err
	}
	pr, err := pageRequest(c)
	if err != nil {
		return err
	}

	criteria, err := search.ParseCriteria(family, search.RawCriteria{
		Keywords:         c.Query("keywords"),
		Categories:       c.Query("categories"),
		Locations:        c.Query("locations"),
		EmploymentTypes:  c.Query("employmentTypes"),
		ExperienceLevels: c.Query("experienceLevels"),
		IsRemote:         c.Query("isRemote"),
		MinSalary:        c.Query("minSalary"),
		MaxSalary:        c.Query("maxSalary"),
		Companies:        c.Query("companies"),
		Sources:          c.Query("sources"),
		Positions:        c.Query("positions"),
		Skills:           c.Query("skills"),
		CountryCodes:     c.Query("countryCodes"),
	})
	if err != nil {
		if errors.Is(err, search.ErrInvalidFilter) {
			return badRequest(err.Error(), err)
		}
		return mapUsecaseError(err)
	}

	page, err := h.uc.Filter(c.Context(), middleware.IdentityFrom(c), family, criteria, pr)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewJobPageResponse(page))
}

func (h *JobsHandler) HandleGetJob(c fiber.Ctx) error {
	ref, err := jobRef(c)
	if err != nil {
		return err
	}
	v, err := h.uc.GetJob(c.Context(), middleware.IdentityFrom(c), ref)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewJobResponse(v))
}

func (h *JobsHandler) HandleFeatured(c fiber.Ctx) error {
	family, err := familyQuery(c)
	if err != nil {
		return err
	}
	category, err := categoryParam(family, c.Query("category"))
	if err != nil {
		return err
	}
	size, err := queryInt(c, "size", defaultFeaturedSize)
	if err != nil {
		return err
	}

	views, err := h.uc.Featured(c.Context(), family, category, size)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewJobResponses(views))
}

func (h *JobsHandler) HandlePreferred(c fiber.Ctx) error {
	family, err := familyQuery(c)
	if err != nil {
		return err
	}
	pr, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.uc.PreferredFeed(c.Context(), middleware.IdentityFrom(c), family, pr)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewJobPageResponse(page))
}
