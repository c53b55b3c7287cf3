package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/pricecompare/internal/core"
)

// multipartOverhead is allowed on top of the file size for form fields and
// part headers.
const multipartOverhead = 1 << 20

// handleUpload ingests one price list and replaces that warehouse's data.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	s.ingest(w, r, true)
}

// handlePreview runs the same pipeline without changing any state.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.ingest(w, r, false)
}

func (s *Server) ingest(w http.ResponseWriter, r *http.Request, commit bool) {
	req, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	var res *core.UploadResult
	if commit {
		res, err = s.service.Ingest(r.Context(), req)
	} else {
		res, err = s.service.Preview(r.Context(), req)
	}
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, r, res)
}

// readUpload pulls the file and sheet selection out of a multipart form.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.IngestRequest, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return core.IngestRequest{}, fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, maxSize)
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return core.IngestRequest{}, core.ErrNoFile
		}
		return core.IngestRequest{}, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	form := uploadForm{Sheet: r.FormValue("sheet")}
	if err := s.check(form); err != nil {
		return core.IngestRequest{}, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return core.IngestRequest{}, core.ErrNoFile
	}
	defer file.Close()

	if header.Size > maxSize {
		return core.IngestRequest{}, fmt.Errorf("%w: %d bytes, limit is %d", core.ErrFileTooLarge, header.Size, maxSize)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return core.IngestRequest{}, fmt.Errorf("%w: %v", core.ErrUnreadableFile, err)
	}

	return core.IngestRequest{
		FileName: header.Filename,
		Data:     data,
		Sheet:    form.Sheet,
	}, nil
}
