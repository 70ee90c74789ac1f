package handler

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// gmailAuthURL handles POST /api/gmail/auth-url.
func (h *LetterHandler) gmailAuthURL(c *gin.Context) {
	var req AuthURLRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RedirectURI == "" || len(req.RedirectURI) > 500 {
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid redirect URI"})
		return
	}

	authURL, err := h.gmail.AuthURL(req.RedirectURI)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authUrl": authURL})
}

// gmailCallback handles GET /api/gmail/callback. Google lands the browser
// here; the outcome always travels back to the app as query parameters.
func (h *LetterHandler) gmailCallback(c *gin.Context) {
	redirectURL := h.gmail.Callback(c.Request.Context(),
		c.Query("code"), c.Query("state"), c.Query("error"))
	c.Redirect(http.StatusFound, redirectURL)
}

// gmailCheckConnection handles POST /api/gmail/check-connection.
func (h *LetterHandler) gmailCheckConnection(c *gin.Context) {
	connected, email := h.gmail.CheckConnection(c.Request.Context())
	resp := gin.H{"isConnected": connected, "email": nil}
	if connected {
		resp["email"] = email
	}
	c.JSON(http.StatusOK, resp)
}

// gmailDisconnect handles POST /api/gmail/disconnect.
func (h *LetterHandler) gmailDisconnect(c *gin.Context) {
	var req DisconnectRequest
	if err := c.ShouldBindJSON(&req); err != nil || !emailPattern.MatchString(req.Email) {
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid email address"})
		return
	}

	if err := h.gmail.Disconnect(c.Request.Context(), req.Email); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// sendEmail handles POST /api/send-email.
func (h *LetterHandler) sendEmail(c *gin.Context) {
	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid request data"})
		return
	}
	if !emailPattern.MatchString(req.To) {
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid recipient email"})
		return
	}
	if req.SenderEmail != "" && !emailPattern.MatchString(req.SenderEmail) {
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid sender email"})
		return
	}
	if req.Subject == "" || len(req.Subject) > 500 {
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid subject"})
		return
	}
	if req.Body == "" || len(req.Body) > 100000 {
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid email body"})
		return
	}

	messageID, err := h.gmail.Send(c.Request.Context(), req.To, req.Subject, req.Body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Email delivered",
		zap.String("to", req.To),
		zap.String("messageID", messageID),
	)
	c.JSON(http.StatusOK, gin.H{"success": true, "messageId": messageID})
}
