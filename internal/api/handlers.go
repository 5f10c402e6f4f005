package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/portfolio"
)

// Handler holds API route handlers.
type Handler struct {
	svc *portfolio.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *portfolio.Service) *Handler {
	return &Handler{svc: svc}
}

// selectedTags collects ?tag= values and comma-separated ?tags= values.
func selectedTags(r *http.Request) []string {
	q := r.URL.Query()
	tags := append([]string(nil), q["tag"]...)
	for _, v := range q["tags"] {
		tags = append(tags, strings.Split(v, ",")...)
	}
	return tags
}

// Profile handles GET /api/profile.
//
//	@Summary		Get the portfolio owner's profile
//	@Tags			profile
//	@Produce		json
//	@Success		200	{object}	models.Profile
//	@Security		BearerAuth
//	@Router			/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Profile(r.Context()))
}

// ListProjects handles GET /api/projects.
//
//	@Summary		List projects filtered by text and tags, newest first
//	@Tags			projects
//	@Produce		json
//	@Param			q		query		string	false	"Case-insensitive text query"
//	@Param			tag		query		string	false	"Required tag (repeatable)"
//	@Param			tags	query		string	false	"Comma-separated required tags"
//	@Success		200		{object}	ProjectListResponse
//	@Security		BearerAuth
//	@Router			/projects [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	items := h.svc.ListProjects(r.Context(), r.URL.Query().Get("q"), selectedTags(r))
	writeJSON(w, http.StatusOK, ProjectListResponse{Projects: items, Total: len(items)})
}

// Tags handles GET /api/tags.
//
//	@Summary		List every tag in the catalog
//	@Tags			projects
//	@Produce		json
//	@Success		200	{object}	TagListResponse
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TagListResponse{Tags: h.svc.Tags(r.Context())})
}

// GetProject handles GET /api/projects/{id}.
//
//	@Summary		Get a single project
//	@Tags			projects
//	@Produce		json
//	@Param			id	path		string	true	"Project id"
//	@Success		200	{object}	ProjectDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/projects/{id} [get]
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get project", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Writeup handles GET /api/projects/{id}/writeup.
//
//	@Summary		Load a project's write-up
//	@Description	Remote write-ups are fetched with branch fallback. A failed load returns 200 with failed=true and a fixed message.
//	@Tags			projects
//	@Produce		json
//	@Param			id				path		string	true	"Project id"
//	@Param			If-None-Match	header		string	false	"ETag of a previously returned write-up"
//	@Success		200				{object}	WriteupResponse
//	@Success		304				"Write-up unchanged"
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/projects/{id}/writeup [get]
func (h *Handler) Writeup(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Writeup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			slog.Debug("load writeup abandoned", slog.String("error", err.Error()))
			return
		}
		writeError(w, "load writeup", err)
		return
	}
	if !res.Failed {
		// The tag covers branch, url and title as well as the text.
		body, err := json.Marshal(res)
		if err != nil {
			writeError(w, "encode writeup", err)
			return
		}
		etag := checksum.ETag(body)
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// SessionState handles GET /api/session.
//
//	@Summary		Get the open project's write-up state
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	SessionState
//	@Security		BearerAuth
//	@Router			/session [get]
func (h *Handler) SessionState(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.SessionState(r.Context())
	if err != nil {
		writeError(w, "session state", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// OpenProject handles POST /api/session/open.
//
//	@Summary		Open a project; remote write-ups load in the background
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OpenProjectRequest	true	"Project to open"
//	@Success		202		{object}	SessionState
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/session/open [post]
func (h *Handler) OpenProject(w http.ResponseWriter, r *http.Request) {
	var req OpenProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	st, err := h.svc.OpenProject(r.Context(), req.ID)
	if err != nil {
		writeError(w, "open project", err)
		return
	}
	writeJSON(w, http.StatusAccepted, st)
}

// CloseProject handles POST /api/session/close.
//
//	@Summary		Close the open project
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	SessionState
//	@Security		BearerAuth
//	@Router			/session/close [post]
func (h *Handler) CloseProject(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.CloseProject(r.Context())
	if err != nil {
		writeError(w, "close project", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// GetTheme handles GET /api/theme.
//
//	@Summary		Get the dark-mode preference
//	@Tags			theme
//	@Produce		json
//	@Success		200	{object}	ThemeResponse
//	@Security		BearerAuth
//	@Router			/theme [get]
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	on, err := h.svc.DarkMode(r.Context())
	if err != nil {
		writeError(w, "get theme", err)
		return
	}
	writeJSON(w, http.StatusOK, ThemeResponse{Dark: on})
}

// PutTheme handles PUT /api/theme.
//
//	@Summary		Set the dark-mode preference
//	@Tags			theme
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ThemeRequest	true	"New preference"
//	@Success		200		{object}	ThemeResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/theme [put]
func (h *Handler) PutTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Dark == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("dark is required"))
		return
	}
	if err := h.svc.SetDarkMode(r.Context(), *req.Dark); err != nil {
		writeError(w, "set theme", err)
		return
	}
	writeJSON(w, http.StatusOK, ThemeResponse{Dark: *req.Dark})
}

// ToggleTheme handles POST /api/theme/toggle.
//
//	@Summary		Flip the dark-mode preference
//	@Tags			theme
//	@Produce		json
//	@Success		200	{object}	ThemeResponse
//	@Security		BearerAuth
//	@Router			/theme/toggle [post]
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	on, err := h.svc.ToggleDarkMode(r.Context())
	if err != nil {
		writeError(w, "toggle theme", err)
		return
	}
	writeJSON(w, http.StatusOK, ThemeResponse{Dark: on})
}
