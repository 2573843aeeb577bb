package v1

import (
	"job-tracker/internal/delivery/http/handler"
	"job-tracker/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// RegisterJobs mounts listing and tracking routes. Literal segments go
// before /:family/:id so "category" or "search" is never read as a family.
func RegisterJobs(r fiber.Router, jobs *handler.JobsHandler, tracking *handler.TrackingHandler, authMw *middleware.AuthMiddleware) {
	if r == nil || jobs == nil {
		return
	}

	required := authMw.Middleware()
	optional := authMw.Optional()

	r.Get("/featured", jobs.HandleFeatured)

	r.Get("/", optional, jobs.HandleBrowse)
	r.Get("/category/:category", optional, jobs.HandleBrowseCategory)
	r.Get("/search", optional, jobs.HandleSearch)
	r.Get("/search/category/:category", optional, jobs.HandleSearchCategory)
	r.Get("/filter", optional, jobs.HandleFilter)
	r.Get("/preferred", required, jobs.HandlePreferred)

	if tracking != nil {
		r.Get("/saved", required, tracking.HandleListSaved)
		r.Get("/applied", required, tracking.HandleListApplied)

		r.Post("/:family/:id/save", required, tracking.HandleSave)
		r.Delete("/:family/:id/save", required, tracking.HandleUnsave)
		r.Get("/:family/:id/is-saved", required, tracking.HandleIsSaved)
		r.Post("/:family/:id/apply", required, tracking.HandleApply)
		r.Delete("/:family/:id/apply", required, tracking.HandleWithdraw)
		r.Put("/:family/:id/status", required, tracking.HandleUpdateStatus)
		r.Get("/:family/:id/status", required, tracking.HandleGetStatus)
	}

	r.Get("/:family/:id", optional, jobs.HandleGetJob)
}
