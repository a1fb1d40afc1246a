package daemon

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusConflict, "scan is running")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"scan is running"}`, rec.Body.String())
}

func TestNewID(t *testing.T) {
	a, b := newID("scan_"), newID("scan_")
	assert.True(t, strings.HasPrefix(a, "scan_"))
	assert.NotEqual(t, a, b)
}
