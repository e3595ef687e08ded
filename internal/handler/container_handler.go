package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/slowish/internal/service"
)

// ContainerHandler handles container-level requests.
type ContainerHandler struct {
	containerService *service.ContainerService
	logger           zerolog.Logger
}

// NewContainerHandler creates a new ContainerHandler.
func NewContainerHandler(containerService *service.ContainerService, logger zerolog.Logger) *ContainerHandler {
	return &ContainerHandler{
		containerService: containerService,
		logger:           logger.With().Str("handler", "container").Logger(),
	}
}

// PutContainer handles PUT /files/{accountID}/{container}.
//
// Returns 201 when the container was created by this request and 200
// when it already existed. The request body is ignored.
func (h *ContainerHandler) PutContainer(w http.ResponseWriter, r *http.Request) {
	out, err := h.containerService.PutContainer(r.Context(), service.PutContainerInput{
		AccountID: accountIDFromRequest(r),
		Name:      chi.URLParam(r, "container"),
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if out.Created {
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetContainer handles GET /files/{accountID}/{container}.
//
// Returns 204 with no body when the container exists and 404 when it
// does not. File listings live under the trailing-slash form of the
// same path.
func (h *ContainerHandler) GetContainer(w http.ResponseWriter, r *http.Request) {
	_, err := h.containerService.GetContainer(r.Context(), service.GetContainerInput{
		AccountID: accountIDFromRequest(r),
		Name:      chi.URLParam(r, "container"),
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
