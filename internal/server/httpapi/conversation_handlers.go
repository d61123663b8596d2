package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type conversationRequest struct {
	UserID  FlexibleID `json:"user_id"`
	Message string     `json:"message"`
	Sender  string     `json:"sender"`
}

type chatRequest struct {
	Message string      `json:"message"`
	UserID  *FlexibleID `json:"user_id"`
}

type memoryRequest struct {
	Instruction string `json:"instruction"`
}

func (s *HTTPServer) appendMessage(c *gin.Context) {
	var req conversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}

	msg, err := s.svc.Conversations.Append(c.Request.Context(), req.UserID.Int64(), req.Message, req.Sender)
	if err != nil {
		s.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (s *HTTPServer) listMessages(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		badRequest(c, msgInvalidID)
		return
	}

	list, err := s.svc.Conversations.List(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *HTTPServer) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}

	res, err := s.svc.Chat.Chat(c.Request.Context(), req.Message, req.UserID.ptr())
	if err != nil {
		s.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": res.Reply})
}

func (s *HTTPServer) getMemory(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		badRequest(c, msgInvalidID)
		return
	}

	m, err := s.svc.Memories.Get(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err, "Memory not found")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *HTTPServer) setMemory(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		badRequest(c, msgInvalidID)
		return
	}

	var req memoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}

	m, err := s.svc.Memories.Set(c.Request.Context(), userID, req.Instruction)
	if err != nil {
		s.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *HTTPServer) clearMemory(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		badRequest(c, msgInvalidID)
		return
	}

	if err := s.svc.Memories.Clear(c.Request.Context(), userID); err != nil {
		s.respondError(c, err, "Memory not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Memory cleared"})
}
