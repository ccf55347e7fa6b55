package http

import (
	"time"

	"github.com/khoahotran/spotme/internal/application/editor"
	"github.com/khoahotran/spotme/internal/application/lifecycle"
	"github.com/khoahotran/spotme/internal/application/render"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
)

// Editor DTOs
type DraftDTO struct {
	Mode    string             `json:"mode"`
	Project *portfolio.Project `json:"project,omitempty"`
}

func ToDraftDTO(d editor.Draft) DraftDTO {
	switch d := d.(type) {
	case editor.DraftingNew:
		return DraftDTO{Mode: "new", Project: &d.Project}
	case editor.DraftingExisting:
		return DraftDTO{Mode: "existing", Project: &d.Project}
	}
	return DraftDTO{Mode: "none"}
}

type DocumentResponse struct {
	Portfolio *portfolio.Portfolio `json:"portfolio"`
	State     lifecycle.State      `json:"state"`
	Draft     DraftDTO             `json:"draft"`
}

type SkillRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
}

type EditFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type DraftPatchRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	LiveURL     *string  `json:"live_url"`
	GithubURL   *string  `json:"github_url"`
	AddTech     []string `json:"add_tech"`
	RemoveTech  []string `json:"remove_tech"`
}

func (r DraftPatchRequest) apply(p *portfolio.Project) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.LiveURL != nil {
		p.LiveURL = *r.LiveURL
	}
	if r.GithubURL != nil {
		p.GithubURL = *r.GithubURL
	}
}

type SocialLinkRequest struct {
	Platform string `json:"platform" binding:"required"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

// Public DTOs
type PublicPortfolioDTO struct {
	Username  string      `json:"username"`
	View      render.View `json:"view"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func ToPublicPortfolioDTO(p *portfolio.Portfolio, v render.View) PublicPortfolioDTO {
	return PublicPortfolioDTO{Username: p.Username, View: v, UpdatedAt: p.UpdatedAt}
}
