package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"communityportal/internal/resources"
	apperrors "communityportal/pkg/errors"
	httputil "communityportal/pkg/http"
	"communityportal/pkg/logger"
	"communityportal/pkg/sanitizer"
)

type ResourceHandler struct {
	catalog *resources.Catalog
	log     *logger.Logger
}

func NewResourceHandler(catalog *resources.Catalog, log *logger.Logger) *ResourceHandler {
	return &ResourceHandler{
		catalog: catalog,
		log:     log,
	}
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.catalog.List()); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

// GetByID normalizes the path id the same way the booking flow does, so the
// same identifier resolves consistently across endpoints.
func (h *ResourceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := sanitizer.NormalizeID(ps.ByName("id"))

	resource, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, resources.ErrNotFound) {
			err = apperrors.NotFoundWithID("Resource", id)
		}
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, resource); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ResourceHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/resources", h.List)
	router.GET("/api/v1/resources/:id", h.GetByID)
}
