package api

import (
	"github.com/starford/folio/internal/loader"
	"github.com/starford/folio/internal/portfolio"
)

// ProjectItem is a project in a list response (aliased from the domain layer).
type ProjectItem = portfolio.ProjectItem

// ProjectDetail is a single project response (aliased from the domain layer).
type ProjectDetail = portfolio.ProjectDetail

// WriteupResponse is a loaded write-up (aliased from the domain layer).
type WriteupResponse = portfolio.WriteupResult

// SessionState is the open-selection snapshot (aliased from the loader).
type SessionState = loader.State

// ProjectListResponse wraps filtered project listings.
type ProjectListResponse struct {
	Projects []ProjectItem `json:"projects" validate:"required"`
	Total    int           `json:"total" example:"3" validate:"required"`
}

// TagListResponse wraps the tag universe.
type TagListResponse struct {
	Tags []string `json:"tags" example:"go,numerics" validate:"required"`
}

// OpenProjectRequest is the request body for opening a project.
type OpenProjectRequest struct {
	ID string `json:"id" example:"orbital-ode-visualizer" validate:"required"`
}

// ThemeRequest is the request body for setting the theme.
type ThemeRequest struct {
	Dark *bool `json:"dark" example:"true" validate:"required"`
}

// ThemeResponse reports the theme preference.
type ThemeResponse struct {
	Dark bool `json:"dark" example:"false"`
}
