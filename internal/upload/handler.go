package upload

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zoodrop/service/internal/response"
	"github.com/zoodrop/service/internal/sniff"
	"github.com/zoodrop/service/internal/storage"
)

// Handler holds HTTP handlers for uploads and downloads.
type Handler struct {
	svc      *Service
	store    storage.Storage
	maxBytes int64
}

// NewHandler creates a new Handler. maxBytes caps the upload request body;
// zero means no cap.
func NewHandler(svc *Service, store storage.Storage, maxBytes int64) *Handler {
	return &Handler{svc: svc, store: store, maxBytes: maxBytes}
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Accepts a multipart form with a binary "file" part and a "password" token part. Returns the public URL of the stored object on success.
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file	true	"File to store"
//	@Param			password	formData	string	true	"Authentication token"
//	@Success		200	{object}	response.Envelope
//	@Failure		400	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		response.BadRequest(w, "Malformed multipart body")
		return
	}

	var req Request
	var haveToken bool

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			h.multipartError(w, err)
			return
		}

		// First-wins: later duplicate parts are skipped, not consumed.
		switch part.FormName() {
		case "file":
			if req.HasFile {
				continue
			}
			data, err := io.ReadAll(part)
			if err != nil {
				h.multipartError(w, err)
				return
			}
			req.File = data
			req.HasFile = true
		case "password":
			if haveToken {
				continue
			}
			data, err := io.ReadAll(part)
			if err != nil {
				h.multipartError(w, err)
				return
			}
			req.Token = string(data)
			haveToken = true
		}
	}

	result, err := h.svc.Process(r.Context(), req)
	if err != nil {
		// Storage failure: generic message out, full detail in the log.
		log.Printf("upload: %v", err)
		response.InternalError(w)
		return
	}

	if result.Success {
		response.OK(w, result.Content)
		return
	}
	response.Reject(w, result.Content)
}

// multipartError distinguishes an oversized payload from a truncated or
// otherwise unreadable body; both are client errors.
func (h *Handler) multipartError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.BadRequest(w, "Payload too large")
		return
	}
	log.Printf("upload: reading multipart body: %v", err)
	response.BadRequest(w, "Malformed multipart body")
}

// Download godoc
//
//	@Summary		Download a stored object
//	@Description	Streams the bytes stored under "identifier.ext". Each successful download bumps the access ledger.
//	@Tags			uploads
//	@Produce		octet-stream
//	@Param			file	path	string	true	"identifier.ext"
//	@Success		200
//	@Failure		404
//	@Router			/{file} [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	ext := path.Ext(name)
	if ext == "" || strings.Contains(name, "..") {
		response.NotFound(w)
		return
	}

	rc, err := h.store.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w)
			return
		}
		log.Printf("download: open %q: %v", name, err)
		http.Error(w, "storage error", http.StatusBadGateway)
		return
	}
	defer rc.Close()

	// Bookkeeping must never delay the byte response.
	go h.svc.RecordAccess(strings.TrimSuffix(name, ext))

	w.Header().Set("Content-Type", sniff.ContentTypeForExt(strings.TrimPrefix(ext, ".")))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}
