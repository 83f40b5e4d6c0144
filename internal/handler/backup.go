package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/awsl-project/dontcaught/internal/domain"
	"github.com/awsl-project/dontcaught/internal/service"
)

// BackupHandler handles settings export and import
type BackupHandler struct {
	svc *service.BackupService
}

func NewBackupHandler(svc *service.BackupService) *BackupHandler {
	return &BackupHandler{svc: svc}
}

// Export downloads all persisted settings
// GET /api/backup/export
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	backup, err := h.svc.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	filename := fmt.Sprintf("dontcaught-settings-%s.json", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	writeJSON(w, http.StatusOK, backup)
}

// Import restores settings from an uploaded backup
// POST /api/backup/import?conflictStrategy=skip|overwrite|error&dryRun=true
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	var backup domain.BackupFile
	if err := decodeJSON(r, &backup); err != nil {
		writeError(w, http.StatusBadRequest, "invalid backup file")
		return
	}

	opts := domain.ImportOptions{
		ConflictStrategy: r.URL.Query().Get("conflictStrategy"),
	}
	if v := r.URL.Query().Get("dryRun"); v != "" {
		dryRun, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid dryRun")
			return
		}
		opts.DryRun = dryRun
	}

	result, err := h.svc.Import(r.Context(), &backup, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
