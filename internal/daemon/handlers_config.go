package daemon

import (
	"errors"
	"net/http"
)

// handleHealth godoc
// @Summary Health check
// @Description Returns service health and version.
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: Version})
}

// handleConfig godoc
// @Summary Get or update configuration
// @Description Returns the comparison settings on GET and updates selected fields on PUT. Updates apply to scans started afterwards.
// @Tags config
// @Accept json
// @Produce json
// @Param request body ConfigUpdateRequest false "Fields to update (PUT only)"
// @Success 200 {object} Config
// @Success 200 {object} StatusResponse "Update acknowledgment"
// @Failure 400 {object} ErrorResponse
// @Router /config [get]
// @Router /config [put]
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.RLock()
		cfg := s.config
		s.mu.RUnlock()
		writeJSON(w, http.StatusOK, cfg)
	case http.MethodPut:
		var req ConfigUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json payload")
			return
		}
		s.mu.Lock()
		next := s.config
		if req.OutputDir != nil {
			next.OutputDir = *req.OutputDir
		}
		if req.DurationTolerance != nil {
			next.DurationTolerance = *req.DurationTolerance
		}
		if req.PixelDiffThreshold != nil {
			next.PixelDiffThreshold = *req.PixelDiffThreshold
		}
		if req.AntiAliasThreshold != nil {
			next.AntiAliasThreshold = *req.AntiAliasThreshold
		}
		if req.MaxFrameWidth != nil {
			next.MaxFrameWidth = *req.MaxFrameWidth
		}
		if req.MaxFrameHeight != nil {
			next.MaxFrameHeight = *req.MaxFrameHeight
		}
		if req.StrictGroups != nil {
			next.StrictGroups = *req.StrictGroups
		}
		if err := next.validate(); err != nil {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.config = next
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	}
}

func (c Config) validate() error {
	switch {
	case c.DurationTolerance < 0:
		return errors.New("duration_tolerance must not be negative")
	case c.PixelDiffThreshold <= 0:
		return errors.New("pixel_diff_threshold must be greater than zero")
	case c.AntiAliasThreshold < 0 || c.AntiAliasThreshold > 1:
		return errors.New("anti_alias_threshold must be within [0,1]")
	case c.MaxFrameWidth <= 0 || c.MaxFrameHeight <= 0:
		return errors.New("max frame size must be greater than zero")
	}
	return nil
}
