package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/slowish/internal/service"
)

// FileHandler handles file-level requests.
type FileHandler struct {
	containerService *service.ContainerService
	fileService      *service.FileService
	logger           zerolog.Logger
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(
	containerService *service.ContainerService,
	fileService *service.FileService,
	logger zerolog.Logger,
) *FileHandler {
	return &FileHandler{
		containerService: containerService,
		fileService:      fileService,
		logger:           logger.With().Str("handler", "file").Logger(),
	}
}

// PutFile handles PUT /files/{accountID}/{container}/{path...}.
//
// Records the file's existence; any request body is discarded without
// being read. Returns 201 when the record was created by this request
// and 200 when it already existed. The container is created on demand.
func (h *FileHandler) PutFile(w http.ResponseWriter, r *http.Request) {
	out, err := h.fileService.PutFile(r.Context(), service.PutFileInput{
		AccountID: accountIDFromRequest(r),
		Container: chi.URLParam(r, "container"),
		Path:      chi.URLParam(r, "*"),
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

// GetFile handles GET /files/{accountID}/{container}/{path...}.
//
// An empty remainder (the trailing-slash form of the container path) is
// a file listing; otherwise the response is an existence check: 200
// with an empty body when the record exists, 404 when it does not.
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" {
		h.listFiles(w, r)
		return
	}

	_, err := h.fileService.GetFile(r.Context(), service.GetFileInput{
		AccountID: accountIDFromRequest(r),
		Container: chi.URLParam(r, "container"),
		Path:      path,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *FileHandler) listFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	out, err := h.containerService.ListFiles(r.Context(), service.ListFilesInput{
		AccountID: accountIDFromRequest(r),
		Container: chi.URLParam(r, "container"),
		Marker:    query.Get("marker"),
		EndMarker: query.Get("end_marker"),
		Prefix:    query.Get("prefix"),
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Entries)
}
