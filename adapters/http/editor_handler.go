package http

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/spotme/internal/application/editor"
	"github.com/khoahotran/spotme/internal/application/session"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
	"github.com/khoahotran/spotme/pkg/apperror"
	"github.com/khoahotran/spotme/pkg/logger"
)

const maxUploadBytes = 50 << 20

type EditorHandler struct {
	registry *session.Registry
	logger   logger.Logger
}

func NewEditorHandler(registry *session.Registry, log logger.Logger) *EditorHandler {
	return &EditorHandler{registry: registry, logger: log}
}

// session resolves the caller's editing session, opening it on first use.
func (h *EditorHandler) session(c *gin.Context) (*session.Session, bool) {
	id, ok := GetIdentityFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("owner information not found", nil))
		return nil, false
	}
	s, err := h.registry.Open(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return nil, false
	}
	return s, true
}

func (h *EditorHandler) respondDocument(c *gin.Context, s *session.Session, status int) {
	doc, _ := s.Store.Document()
	c.JSON(status, DocumentResponse{
		Portfolio: doc,
		State:     s.Controller.State(),
		Draft:     ToDraftDTO(s.Editors.Projects.Draft()),
	})
}

func (h *EditorHandler) GetPortfolio(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.respondDocument(c, s, http.StatusOK)
}

func (h *EditorHandler) PatchSection(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	section, err := portfolio.ParseSection(c.Param("section"))
	if err != nil {
		c.Error(apperror.NewNotFound("section", c.Param("section")))
		return
	}
	patch, err := portfolio.NewPatch(section)
	if err != nil {
		c.Error(apperror.NewInvalidInput(err.Error(), err))
		return
	}
	if err := c.ShouldBindJSON(patch); err != nil {
		c.Error(apperror.NewInvalidInput("invalid section patch", err))
		return
	}
	if err := s.Editors.Apply(patch); err != nil {
		c.Error(err)
		return
	}
	h.respondDocument(c, s, http.StatusOK)
}

// formFile opens the multipart "file" field, capping the request body.
func formFile(c *gin.Context) (multipart.File, string, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return nil, "", false
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInvalidInput("cannot read uploaded file", err))
		return nil, "", false
	}
	return file, fileHeader.Filename, true
}

// Skills

func (h *EditorHandler) AddSkill(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid skill", err))
		return
	}
	candidate := editor.SkillCandidate{Name: req.Name, Icon: req.Icon}
	if req.Category != "" {
		category, err := portfolio.ParseSkillCategory(req.Category)
		if err != nil {
			c.Error(apperror.NewInvalidInput(err.Error(), err))
			return
		}
		candidate.Category = category
	}
	skill, err := s.Editors.Skills.AddSkill(candidate)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, skill)
}

func (h *EditorHandler) EditSkill(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("field is required", err))
		return
	}
	if err := s.Editors.Skills.Edit(c.Param("id"), editor.SkillField(req.Field), req.Value); err != nil {
		c.Error(err)
		return
	}
	h.respondDocument(c, s, http.StatusOK)
}

func (h *EditorHandler) RemoveSkill(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Editors.Skills.Remove(c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Projects

func (h *EditorHandler) BeginNewProject(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Editors.Projects.BeginNew()
	c.JSON(http.StatusCreated, ToDraftDTO(s.Editors.Projects.Draft()))
}

func (h *EditorHandler) BeginEditProject(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := s.Editors.Projects.BeginEdit(c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToDraftDTO(s.Editors.Projects.Draft()))
}

func (h *EditorHandler) PatchDraft(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req DraftPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid project draft", err))
		return
	}
	projects := s.Editors.Projects
	if err := projects.UpdateDraft(req.apply); err != nil {
		c.Error(err)
		return
	}
	for _, tech := range req.AddTech {
		if err := projects.AddTech(tech); err != nil {
			c.Error(err)
			return
		}
	}
	for _, tech := range req.RemoveTech {
		if err := projects.RemoveTech(tech); err != nil {
			c.Error(err)
			return
		}
	}
	c.JSON(http.StatusOK, ToDraftDTO(projects.Draft()))
}

func (h *EditorHandler) AttachDraftMedia(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	file, filename, ok := formFile(c)
	if !ok {
		return
	}
	defer file.Close()
	kind, err := editor.ParseMediaKind(c.PostForm("kind"))
	if err != nil {
		c.Error(apperror.NewInvalidInput(err.Error(), err))
		return
	}

	attach := s.Editors.Projects.AttachImage
	if kind == editor.MediaKindVideo {
		attach = s.Editors.Projects.AttachVideo
	}
	url, err := attach(c.Request.Context(), file, filename)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{URL: url})
}

func (h *EditorHandler) RemoveDraftMedia(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	kind, err := editor.ParseMediaKind(c.Param("kind"))
	if err != nil {
		c.Error(apperror.NewInvalidInput(err.Error(), err))
		return
	}
	if err := s.Editors.Projects.RemoveMedia(kind); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToDraftDTO(s.Editors.Projects.Draft()))
}

func (h *EditorHandler) SaveDraft(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	project, err := s.Editors.Projects.Save()
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *EditorHandler) CancelDraft(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Editors.Projects.Cancel()
	c.Status(http.StatusNoContent)
}

func (h *EditorHandler) DeleteProject(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Editors.Projects.Delete(c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Contact

func (h *EditorHandler) AddSocialLink(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req SocialLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("platform is required", err))
		return
	}
	link, err := s.Editors.Contact.AddLink(editor.LinkCandidate{Platform: req.Platform, URL: req.URL, Icon: req.Icon})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *EditorHandler) EditSocialLink(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("field is required", err))
		return
	}
	if err := s.Editors.Contact.EditSocialLink(c.Param("id"), editor.LinkField(req.Field), req.Value); err != nil {
		c.Error(err)
		return
	}
	h.respondDocument(c, s, http.StatusOK)
}

func (h *EditorHandler) RemoveSocialLink(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Editors.Contact.RemoveSocialLink(c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EditorHandler) UploadAvatar(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	file, filename, ok := formFile(c)
	if !ok {
		return
	}
	defer file.Close()

	url, err := s.Editors.Hero.UploadAvatar(c.Request.Context(), file, filename)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{URL: url})
}

// Lifecycle

func (h *EditorHandler) Save(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Controller.Save(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	h.respondDocument(c, s, http.StatusOK)
}

func (h *EditorHandler) Publish(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	res, err := s.Controller.Publish(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	h.logger.Info("Portfolio published", zap.String("user_id", s.UserID.String()), zap.String("public_url", res.PublicURL))
	c.JSON(http.StatusOK, res)
}

func (h *EditorHandler) Preview(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Preview())
}
