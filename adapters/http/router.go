package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khoahotran/spotme/pkg/auth"
	"github.com/khoahotran/spotme/pkg/logger"
)

type RouterDeps struct {
	Auth     *AuthHandler
	Editor   *EditorHandler
	Public   *PublicHandler
	JWT      *auth.JWTService
	Gatherer prometheus.Gatherer
	Logger   logger.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), ErrorMiddleware(d.Logger))

	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.POST("/auth/login", d.Auth.Login)
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.GET("/p/:username", d.Public.GetPortfolio)
		api.GET("/feed.xml", d.Public.GenerateRSS)

		editor := api.Group("/editor")
		editor.Use(AuthMiddleware(d.JWT, d.Logger))
		{
			editor.GET("/portfolio", d.Editor.GetPortfolio)
			editor.PATCH("/portfolio/:section", d.Editor.PatchSection)

			editor.POST("/skills", d.Editor.AddSkill)
			editor.PUT("/skills/:id", d.Editor.EditSkill)
			editor.DELETE("/skills/:id", d.Editor.RemoveSkill)

			projects := editor.Group("/projects")
			{
				projects.POST("/draft", d.Editor.BeginNewProject)
				projects.PATCH("/draft", d.Editor.PatchDraft)
				projects.DELETE("/draft", d.Editor.CancelDraft)
				projects.POST("/draft/media", d.Editor.AttachDraftMedia)
				projects.DELETE("/draft/media/:kind", d.Editor.RemoveDraftMedia)
				projects.POST("/draft/save", d.Editor.SaveDraft)
				projects.POST("/:id/draft", d.Editor.BeginEditProject)
				projects.DELETE("/:id", d.Editor.DeleteProject)
			}

			editor.POST("/social-links", d.Editor.AddSocialLink)
			editor.PUT("/social-links/:id", d.Editor.EditSocialLink)
			editor.DELETE("/social-links/:id", d.Editor.RemoveSocialLink)
			editor.POST("/avatar", d.Editor.UploadAvatar)

			editor.POST("/save", d.Editor.Save)
			editor.POST("/publish", d.Editor.Publish)
			editor.GET("/preview", d.Editor.Preview)
			editor.GET("/preview/stream", d.Editor.PreviewStream)
		}
	}

	return router
}
