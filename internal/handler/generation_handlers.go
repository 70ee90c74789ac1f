package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// generate handles POST /api/generate. A missing story id gets one assigned
// so progress subscriptions opened afterwards still have a key.
func (h *LetterHandler) generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FormData == nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid request data"})
		return
	}
	if req.StoryID == "" {
		req.StoryID = uuid.New().String()
	}

	emails, err := h.generator.Generate(c.Request.Context(), req.StoryID, *req.FormData)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Letters generated",
		zap.String("storyID", req.StoryID),
		zap.Int("count", len(emails)),
	)
	c.JSON(http.StatusOK, GenerateResponse{StoryID: req.StoryID, Emails: emails})
}
