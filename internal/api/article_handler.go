package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/article-api/internal/models"
	"github.com/article-api/internal/service"
)

// ArticleHandler handles the /article endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// Create handles POST /article/create
func (h *ArticleHandler) Create(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	article, err := h.services.Article.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, article)
}

// ListAll handles GET /article/all
func (h *ArticleHandler) ListAll(c *gin.Context) {
	articles, err := h.services.Article.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, articles)
}

// GetByID handles GET /article/:id
func (h *ArticleHandler) GetByID(c *gin.Context) {
	article, err := h.services.Article.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

// SearchByTitle handles GET /article/search/title/:fragment
func (h *ArticleHandler) SearchByTitle(c *gin.Context) {
	articles, err := h.services.Article.SearchByTitle(c.Request.Context(), c.Param("fragment"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, articles)
}

// Update handles PUT /article/update/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /article/delete/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	article, err := h.services.Article.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

// bindInput decodes the JSON body; presence of the fields is checked by the service
func (h *ArticleHandler) bindInput(c *gin.Context) (*models.ArticleInput, bool) {
	var in models.ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return nil, false
	}
	return &in, true
}

// respondError maps a service error to its status code and JSON body
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	switch service.KindOf(err) {
	case service.KindBadRequest:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("Article request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
