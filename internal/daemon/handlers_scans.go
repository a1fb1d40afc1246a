package daemon

import (
	"errors"
	"net/http"
	"os"
	"sort"
	"strings"

	"videodupes/internal/deletion"

	"github.com/go-chi/chi/v5"
)

// handleScans godoc
// @Summary List or start scans
// @Description GET lists scans with progress; POST starts a duplicate scan of a directory.
// @Tags scans
// @Accept json
// @Produce json
// @Param request body StartScanRequest true "Directory to scan"
// @Success 200 {array} Scan
// @Success 202 {object} StartScanResponse
// @Failure 400 {object} ErrorResponse
// @Router /scans [get]
// @Router /scans [post]
func (s *Server) handleScans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.RLock()
		list := make([]Scan, 0, len(s.scans))
		for _, sc := range s.scans {
			list = append(list, *sc)
		}
		s.mu.RUnlock()
		sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		var req StartScanRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json payload")
			return
		}
		path := strings.TrimSpace(req.Path)
		if path == "" {
			writeError(w, http.StatusBadRequest, "path is required")
			return
		}
		if fi, err := os.Stat(path); err != nil || !fi.IsDir() {
			writeError(w, http.StatusBadRequest, "path must be an existing directory")
			return
		}

		policy := deletion.PolicyNo
		if req.Delete != "" {
			p, err := deletion.ParsePolicy(req.Delete)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			policy = p
		}
		switch {
		case policy == deletion.PolicyYes:
			writeError(w, http.StatusBadRequest, `delete policy "yes" needs an interactive terminal`)
			return
		case policy == deletion.PolicyAll && !req.Confirm:
			writeError(w, http.StatusBadRequest, `delete policy "all" requires "confirm": true`)
			return
		}

		scan := s.startScan(path, policy, req.Strict)
		writeJSON(w, http.StatusAccepted, StartScanResponse{Status: "started", ScanID: scan.ID})
	}
}

// handleGetScan godoc
// @Summary Get scan details
// @Description Returns status, progress and result counts for a scan.
// @Tags scans
// @Produce json
// @Param scanID path string true "Scan ID"
// @Success 200 {object} Scan
// @Failure 404 {object} ErrorResponse
// @Router /scans/{scanID} [get]
func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")
	s.mu.RLock()
	scan, ok := s.scans[scanID]
	if ok {
		copyScan := *scan
		s.mu.RUnlock()
		writeJSON(w, http.StatusOK, copyScan)
		return
	}
	s.mu.RUnlock()
	writeError(w, http.StatusNotFound, "scan not found")
}

// handleCancelScan godoc
// @Summary Cancel scan
// @Description Attempts to cancel a queued or running scan. Files already deleted stay deleted.
// @Tags scans
// @Produce json
// @Param scanID path string true "Scan ID"
// @Success 200 {object} CancelScanResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /scans/{scanID}/cancel [post]
func (s *Server) handleCancelScan(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")
	if err := s.cancelScan(scanID); err != nil {
		switch {
		case errors.Is(err, errNotFound):
			writeError(w, http.StatusNotFound, "scan not found")
		case errors.Is(err, errNotActive):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, CancelScanResponse{Status: "cancelling"})
}

// handleScanReport godoc
// @Summary Get scan report
// @Description Returns the duplicate report of a finished scan, with paths relative to the scanned directory.
// @Tags scans
// @Produce json
// @Param scanID path string true "Scan ID"
// @Success 200 {object} report.Report
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /scans/{scanID}/report [get]
func (s *Server) handleScanReport(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")
	s.mu.RLock()
	scan, ok := s.scans[scanID]
	if !ok {
		s.mu.RUnlock()
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	rep := scan.report
	status := scan.Status
	s.mu.RUnlock()

	if rep == nil {
		writeError(w, http.StatusConflict, "scan is "+status)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
