package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/pricecompare/internal/core"
	"github.com/JonMunkholm/pricecompare/internal/logging"
)

var errInvalidRequest = errors.New("invalid request")

// searchParams is the query string of GET /api/search.
type searchParams struct {
	Query string `validate:"max=200"`
}

// formatParams selects an export format. Empty means xlsx.
type formatParams struct {
	Format string `validate:"omitempty,oneof=xlsx csv XLSX CSV"`
}

// uploadForm holds the non-file fields of an upload or preview form.
type uploadForm struct {
	Sheet string `validate:"max=31"`
}

// warehouseParams identifies a warehouse in the URL.
type warehouseParams struct {
	Name string `validate:"required,max=255"`
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// check runs struct validation and wraps failures so MapError reports them
// as invalid requests.
func (s *Server) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed %q", errInvalidRequest, strings.ToLower(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("%w: %v", errInvalidRequest, err)
}

// urlParam returns a trimmed chi route parameter.
func urlParam(r *http.Request, key string) string {
	return strings.TrimSpace(chi.URLParam(r, key))
}

// writeJSON encodes v as JSON and writes it to w.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}

// handleUploadQueueStatus returns the current state of the upload limiter.
// Used for monitoring and to check if the system can accept more uploads.
func (s *Server) handleUploadQueueStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.service.UploadLimiterStatus())
}

// handleUploadHistory lists recent committed uploads.
func (s *Server) handleUploadHistory(w http.ResponseWriter, r *http.Request) {
	history := s.service.UploadHistory()
	if history == nil {
		history = []core.UploadSummary{}
	}
	writeJSON(w, r, map[string]any{"uploads": history})
}

// handleGetUpload returns the full result of one upload.
func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.GetUpload(urlParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, res)
}
