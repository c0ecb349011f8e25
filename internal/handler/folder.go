package handler

import (
	"log/slog"
	"net/http"

	"cabinet/internal/domain/services"
	"cabinet/internal/httputil"

	"github.com/google/uuid"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// CreateFolder creates a top-level folder for the caller
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.folderService.CreateFolder(r.Context(), userID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// ListFolders lists the caller's folders and the folders shared with them
// GET /api/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	listing, err := h.folderService.ListFolders(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listing)
}

// GetFolder returns an owned folder with its files
// GET /api/folders/{folderId}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	folderID, ok := folderIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.folderService.GetFolderWithFiles(r.Context(), userID, folderID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// GetSharedFolder returns a folder with the files in it shared with the caller
// GET /api/folders/{folderId}/shared
func (h *FolderHandler) GetSharedFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	folderID, ok := folderIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.folderService.GetFolderWithSharedFiles(r.Context(), userID, folderID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// UpdateFolder renames and/or moves a folder
// PATCH /api/folders/{folderId}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	folderID, ok := folderIDParam(w, r)
	if !ok {
		return
	}

	var req services.UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.folderService.UpdateFolder(r.Context(), userID, folderID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes a folder
// DELETE /api/folders/{folderId}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	folderID, ok := folderIDParam(w, r)
	if !ok {
		return
	}

	if err := h.folderService.DeleteFolder(r.Context(), userID, folderID); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Folder deleted successfully.")
}

// requireUserID writes a 401 when the request carries no authenticated caller.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "user not authenticated")
		return "", false
	}
	return userID, true
}

// folderIDParam reads the {folderId} path value and rejects non-UUIDs with 400.
func folderIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("folderId")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Folder ID is required")
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid folder ID")
		return "", false
	}
	return id, true
}
