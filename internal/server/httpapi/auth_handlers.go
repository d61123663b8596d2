package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// publicUser is the subset of a user returned after login.
type publicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}

	user, err := s.svc.Auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.respondError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully! Please verify your email.",
		"user":    user,
	})
}

func (s *HTTPServer) sendCode(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}

	if err := s.svc.Auth.SendVerificationCode(c.Request.Context(), req.Email); err != nil {
		s.respondError(c, err, "User not found. Please register first.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent successfully!"})
}

func (s *HTTPServer) verifyCode(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}

	if err := s.svc.Auth.VerifyCode(c.Request.Context(), req.Email, req.Code); err != nil {
		s.respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification successful!"})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}

	res, err := s.svc.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    publicUser{ID: res.User.ID, Name: res.User.Name, Email: res.User.Email},
		"token":   res.Token,
	})
}

func (s *HTTPServer) me(c *gin.Context) {
	user, err := s.svc.Auth.Me(c.Request.Context(), c.GetInt64(ctxUserID))
	if err != nil {
		s.respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}
