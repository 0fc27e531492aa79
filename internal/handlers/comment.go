package handlers

import (
	"net/http"

	"threadboard/internal/metrics"
	"threadboard/internal/middleware"
	"threadboard/internal/services"
	"threadboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CommentHandler struct {
	comments *services.CommentService
	metrics  *metrics.Metrics
	log      *logrus.Logger
}

func NewCommentHandler(comments *services.CommentService, m *metrics.Metrics, log *logrus.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, metrics: m, log: log}
}

// Create POST /comments/create
func (h *CommentHandler) Create(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "Missing or invalid token")
		return
	}
	var in services.CreateCommentInput
	if !bindJSON(c, &in) {
		return
	}
	if _, err := h.comments.Create(c.Request.Context(), identity, in); err != nil {
		RespondError(c, h.log, err)
		return
	}
	h.metrics.CommentsCreated.Inc()
	Success(c, http.StatusCreated, "Comment created successfully")
}

// List GET /comments/list
func (h *CommentHandler) List(c *gin.Context) {
	forest, err := h.comments.Tree(c.Request.Context())
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	h.metrics.ForestNodes.Set(float64(services.CountNodes(forest)))
	c.JSON(http.StatusOK, gin.H{"comments": forest})
}

// Delete DELETE /comments/delete/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "Missing or invalid token")
		return
	}
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		Error(c, http.StatusNotFound, "Comment does not exist")
		return
	}
	if err := h.comments.Delete(c.Request.Context(), identity, id); err != nil {
		RespondError(c, h.log, err)
		return
	}
	h.metrics.CommentsDeleted.Inc()
	Success(c, http.StatusOK, "Comment deleted successfully")
}
