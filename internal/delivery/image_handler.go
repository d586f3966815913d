package delivery

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/benmill23/Image-Uploader/internal/domain"
	"github.com/benmill23/Image-Uploader/internal/models"
	"github.com/benmill23/Image-Uploader/internal/ports"
)

const maxUploadBody = 64 << 20 // whole multipart batch

type ImageHandler struct {
	uploader ports.Uploader
	gallery  ports.Gallery
	log      *logger.ZapLogger
}

func NewImageHandler(uploader ports.Uploader, gallery ports.Gallery, log *logger.ZapLogger) *ImageHandler {
	return &ImageHandler{
		uploader: uploader,
		gallery:  gallery,
		log:      log,
	}
}

// POST /api/images
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		http.Error(w, "no files provided (form field 'images')", http.StatusBadRequest)
		return
	}

	var files []ports.PendingFile
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, "failed to open "+fh.Filename, http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "failed to read "+fh.Filename, http.StatusBadRequest)
			return
		}
		files = append(files, ports.PendingFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	uploaded, err := h.uploader.Upload(r.Context(), userID, files)
	if err != nil {
		h.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "upload failed",
			Error:   err,
			Fields:  map[string]any{"user": userID, "committed": len(uploaded)},
		})
		writeUploadError(w, err, uploaded)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"images": uploaded,
	})
}

// GET /api/images
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	images, err := h.gallery.List(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to list images", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"images": images,
		"count":  len(images),
		"limit":  h.gallery.Limit(),
	})
}

// GET /api/images/{id}/url
func (h *ImageHandler) DisplayURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	url, err := h.gallery.DisplayURL(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "image not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrSignedURL):
			http.Error(w, "failed to sign url", http.StatusBadGateway)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// DELETE /api/images/{id}
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.uploader.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "image not found", http.StatusNotFound)
			return
		}
		h.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "delete failed",
			Error:   err,
			Fields:  map[string]any{"image": id},
		})
		http.Error(w, "failed to delete image", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeUploadError(w http.ResponseWriter, err error, committed []models.Image) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrStorageWrite), errors.Is(err, domain.ErrRecordInsert):
		status = http.StatusBadGateway
	}

	// committed records survive a mid-batch failure, tell the client
	// about them so it can refresh and retry only the rest
	writeJSON(w, status, map[string]any{
		"error":  err.Error(),
		"images": committed,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
