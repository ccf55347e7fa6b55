package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portfolioUC "github.com/khoahotran/spotme/internal/application/usecase/portfolio"
	"github.com/khoahotran/spotme/pkg/apperror"
	"github.com/khoahotran/spotme/pkg/logger"
)

type PublicHandler struct {
	getPublicUseCase *portfolioUC.GetPublicPortfolioUseCase
	rssUseCase       *portfolioUC.RSSUseCase
	logger           logger.Logger
}

func NewPublicHandler(getUC *portfolioUC.GetPublicPortfolioUseCase, rssUC *portfolioUC.RSSUseCase, log logger.Logger) *PublicHandler {
	return &PublicHandler{
		getPublicUseCase: getUC,
		rssUseCase:       rssUC,
		logger:           log,
	}
}

func (h *PublicHandler) GetPortfolio(c *gin.Context) {
	output, err := h.getPublicUseCase.Execute(c.Request.Context(), portfolioUC.GetPublicPortfolioInput{
		Username: c.Param("username"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, ToPublicPortfolioDTO(output.Portfolio, output.View))
}

func (h *PublicHandler) GenerateRSS(c *gin.Context) {
	feed, err := h.rssUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(apperror.NewInternal("failed to generate RSS feed", err))
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")

	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write RSS feed to response", err)
	}
}
