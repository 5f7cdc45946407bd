package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mind-engage/quizmaster/internal/lesson"
	"github.com/mind-engage/quizmaster/internal/logger"
	"github.com/mind-engage/quizmaster/internal/storage"
)

const maxUpload = 32 << 20

// POST /lessons/{lessonID}/resources
// JSON body attaches a link; a multipart "file" field uploads a file into the
// asset store and attaches it.
func AttachResourceHandler(store *lesson.Store, assets storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessonID := chi.URLParam(r, "lessonID")
		if _, err := store.Get(lessonID); err != nil {
			writeError(w, err)
			return
		}

		var res lesson.Resource
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
			f, hdr, err := r.FormFile("file")
			if err != nil {
				http.Error(w, "file required", http.StatusBadRequest)
				return
			}
			defer f.Close()

			name := path.Base(strings.ReplaceAll(hdr.Filename, "\\", "/"))
			key := "lessons/" + lessonID + "/" + uuid.NewString() + path.Ext(name)
			if _, err := assets.Put(r.Context(), key, f); err != nil {
				writeError(w, err)
				return
			}
			res = lesson.Resource{
				Type:     lesson.ResourceFile,
				Name:     name,
				URL:      "/assets/" + key,
				MimeType: hdr.Header.Get("Content-Type"),
			}
			if n := r.FormValue("name"); n != "" {
				res.Name = n
			}
		} else {
			if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
				http.Error(w, "bad json", http.StatusBadRequest)
				return
			}
			res.Type = lesson.ResourceLink
		}

		out, err := store.AttachResource(r.Context(), lessonID, res)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// DELETE /lessons/{lessonID}/resources/{resourceID}
// Uploaded files are removed from the asset store as well.
func DetachResourceHandler(store *lesson.Store, assets storage.BlobStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessonID := chi.URLParam(r, "lessonID")
		resourceID := chi.URLParam(r, "resourceID")
		l, err := store.Get(lessonID)
		if err != nil {
			writeError(w, err)
			return
		}
		var target *lesson.Resource
		for i := range l.Resources {
			if l.Resources[i].ID == resourceID {
				target = &l.Resources[i]
			}
		}
		if target == nil {
			writeError(w, lesson.ErrNotFound)
			return
		}
		if err := store.DetachResource(r.Context(), lessonID, resourceID); err != nil {
			writeError(w, err)
			return
		}
		if target.Type == lesson.ResourceFile && strings.HasPrefix(target.URL, "/assets/") {
			if err := assets.Delete(r.Context(), strings.TrimPrefix(target.URL, "/assets/")); err != nil && !errors.Is(err, storage.ErrNotFound) {
				log.Warn("asset cleanup", "url", target.URL, logger.Err(err))
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
