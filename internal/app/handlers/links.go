package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ekuznetsova/golinks/internal/app/middlewares"
	"github.com/ekuznetsova/golinks/internal/app/models"
	"github.com/ekuznetsova/golinks/internal/app/services"
	"github.com/ekuznetsova/golinks/internal/app/storage"
)

// Redirect resolves a short code and sends the visitor to its destination.
// The route is a catch-all: codes are caller-chosen and may span several
// path segments. Redirects are public in both modes; the click counter is
// bumped before the redirect is written, and a failed bump fails the request.
func (h Handlers) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "*")
	if code == "" {
		h.NotFound(w, r)
		return
	}
	if h.config.MultiUser && strings.HasPrefix(code, "admin") {
		// Reserved admin space, never a redirect candidate
		if _, ok := h.identity(r); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		h.NotFound(w, r)
		return
	}

	link, err := h.store.FindByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.store.IncrementClicks(r.Context(), code); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, link.Destination, http.StatusFound)
}

// ListLinks returns raw link records, newest first. Multi-user mode scopes
// the listing to the caller.
func (h Handlers) ListLinks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)

	var links []models.Link
	var err error
	if h.config.MultiUser {
		owner, _ := middlewares.OwnerFromContext(r.Context())
		links, err = h.store.FindByOwner(r.Context(), owner)
	} else {
		links, err = h.store.FindAll(r.Context())
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		encoder.Encode(map[string]string{"error": "Failed to list links"})
		return
	}

	if links == nil {
		links = make([]models.Link, 0)
	}
	encoder.Encode(links)
}

// CreateLink stores a caller-chosen code/destination pair
func (h Handlers) CreateLink(creator services.LinkCreator) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		encoder := json.NewEncoder(w)

		var requestBody struct {
			Code        string `json:"code"`
			Destination string `json:"destination"`
		}
		if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			encoder.Encode(map[string]string{"error": "Invalid request body"})
			return
		}
		if requestBody.Code == "" || requestBody.Destination == "" {
			w.WriteHeader(http.StatusBadRequest)
			encoder.Encode(map[string]string{"error": "Missing code or destination"})
			return
		}

		owner, _ := middlewares.OwnerFromContext(r.Context())
		err := creator.Create(r.Context(), models.Link{
			Code:        requestBody.Code,
			Destination: requestBody.Destination,
			OwnerEmail:  owner,
		})
		if err != nil {
			var takenErr *storage.ErrCodeTaken
			if errors.As(err, &takenErr) {
				w.WriteHeader(http.StatusConflict)
				if h.config.MultiUser {
					encoder.Encode(map[string]string{"error": "Code already taken"})
				} else {
					encoder.Encode(map[string]string{"error": "Code already exists"})
				}
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			encoder.Encode(map[string]string{"error": "Failed to create link"})
			return
		}

		encoder.Encode(struct {
			Success     bool   `json:"success"`
			Code        string `json:"code"`
			Destination string `json:"destination"`
		}{
			Success:     true,
			Code:        requestBody.Code,
			Destination: requestBody.Destination,
		})
	}
}

// DeleteLink removes a link by code. Multi-user mode only deletes the
// caller's own record; either way a miss still answers success.
func (h Handlers) DeleteLink(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	code := chi.URLParam(r, "*")

	var owner string
	if h.config.MultiUser {
		owner, _ = middlewares.OwnerFromContext(r.Context())
	}
	if err := h.store.Delete(r.Context(), code, owner); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// ExportLinks downloads the caller's links as a pretty-printed JSON file
func (h Handlers) ExportLinks(w http.ResponseWriter, r *http.Request) {
	owner, _ := middlewares.OwnerFromContext(r.Context())
	links, err := h.store.FindByOwner(r.Context(), owner)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	type exportItem struct {
		Code        string    `json:"code"`
		Destination string    `json:"destination"`
		Clicks      uint64    `json:"clicks"`
		CreatedAt   time.Time `json:"created_at"`
	}
	items := make([]exportItem, len(links))
	for i := range links {
		items[i] = exportItem{
			Code:        links[i].Code,
			Destination: links[i].Destination,
			Clicks:      links[i].Clicks,
			CreatedAt:   links[i].CreatedAt,
		}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	fileName := fmt.Sprintf("links-export-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Write(data)
}

// ImportLinks bulk-creates links from an uploaded JSON array
func (h Handlers) ImportLinks(importer services.LinkImporter) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		encoder := json.NewEncoder(w)

		entries := make([]models.Link, 0)
		if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			encoder.Encode(map[string]string{"error": "Invalid JSON format"})
			return
		}

		owner, _ := middlewares.OwnerFromContext(r.Context())
		imported, skipped, err := importer.Import(r.Context(), owner, entries)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			encoder.Encode(map[string]string{"error": "Failed to import links"})
			return
		}

		encoder.Encode(struct {
			Success  bool `json:"success"`
			Imported int  `json:"imported"`
			Skipped  int  `json:"skipped"`
		}{
			Success:  true,
			Imported: imported,
			Skipped:  skipped,
		})
	}
}
