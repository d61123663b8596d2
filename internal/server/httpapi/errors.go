package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sarkie/sarkie-backend/internal/common"
	"github.com/sarkie/sarkie-backend/internal/server/completion"
)

// errorMapping is checked in order; the first target matched by errors.Is wins.
var errorMapping = []struct {
	target  error
	status  int
	message string
}{
	{common.ErrUserExists, http.StatusBadRequest, "User already exists. Please log in."},
	{common.ErrUserNotFound, http.StatusBadRequest, "User not found"},
	{common.ErrNotVerified, http.StatusForbidden, "Please verify your email before logging in."},
	{common.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
	{common.ErrAlreadyVerified, http.StatusBadRequest, "Email is already verified."},
	{common.ErrNoVerificationCode, http.StatusBadRequest, "No code found for this email."},
	{common.ErrCodeExpired, http.StatusBadRequest, "Verification code expired."},
	{common.ErrInvalidCode, http.StatusBadRequest, "Invalid verification code."},
	{common.ErrDuplicateMessage, http.StatusConflict, "Duplicate message detected"},
	{common.ErrTokenExpired, http.StatusUnauthorized, "Invalid or expired token"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
	{common.ErrorUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{common.ErrorInternal, http.StatusInternalServerError, "Server error"},
}

const (
	msgServerError    = "Server error"
	msgInvalidRequest = "Invalid request body"
	msgInvalidID      = "Invalid id"
	msgUpstream       = "AI response error"
)

// respondError writes the JSON error body for err. notFound is the message
// used when err is common.ErrorNotFound.
func (s *HTTPServer) respondError(c *gin.Context, err error, notFound string) {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
		return
	}

	var ue *completion.UpstreamError
	if errors.As(err, &ue) {
		s.logger.Error(c.Request.Context(), "upstream failure", "status", ue.StatusCode, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgUpstream, "details": ue.Details})
		return
	}

	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			if m.status >= http.StatusInternalServerError {
				s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
			}
			c.JSON(m.status, gin.H{"error": m.message})
			return
		}
	}

	if errors.Is(err, common.ErrorNotFound) {
		if notFound == "" {
			notFound = "Not found"
		}
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return
	}

	s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
