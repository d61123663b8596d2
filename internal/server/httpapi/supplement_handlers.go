package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type supplementRequest struct {
	UserID    FlexibleID `json:"user_id"`
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage"`
	Frequency string     `json:"frequency"`
}

type effectRequest struct {
	UserID            FlexibleID  `json:"user_id"`
	SupplementID      *FlexibleID `json:"supplement_id"`
	EffectType        string      `json:"effect_type"`
	EffectDescription string      `json:"effect_description"`
}

func (s *HTTPServer) createSupplement(c *gin.Context) {
	var req supplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}

	sup, err := s.svc.Supplements.Create(c.Request.Context(), req.UserID.Int64(), req.Name, req.Dosage, req.Frequency)
	if err != nil {
		s.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, sup)
}

func (s *HTTPServer) listSupplements(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		badRequest(c, msgInvalidID)
		return
	}

	list, err := s.svc.Supplements.ListByUser(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *HTTPServer) updateSupplement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		badRequest(c, msgInvalidID)
		return
	}

	var req supplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}

	sup, err := s.svc.Supplements.Update(c.Request.Context(), id, req.Name, req.Dosage, req.Frequency)
	if err != nil {
		s.respondError(c, err, "Supplement not found")
		return
	}
	c.JSON(http.StatusOK, sup)
}

func (s *HTTPServer) deleteSupplement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		badRequest(c, msgInvalidID)
		return
	}

	if err := s.svc.Supplements.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err, "Supplement not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Supplement deleted successfully"})
}

func (s *HTTPServer) addEffect(c *gin.Context) {
	var req effectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}

	e, err := s.svc.Supplements.AddEffect(c.Request.Context(), req.UserID.Int64(), req.SupplementID.ptr(), req.EffectType, req.EffectDescription)
	if err != nil {
		s.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *HTTPServer) deleteEffect(c *gin.Context) {
	id, ok := pathID(c, "effect_id")
	if !ok {
		badRequest(c, msgInvalidID)
		return
	}

	if err := s.svc.Supplements.DeleteEffect(c.Request.Context(), id); err != nil {
		s.respondError(c, err, "Effect not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Effect deleted successfully"})
}

func (s *HTTPServer) listEffects(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		badRequest(c, msgInvalidID)
		return
	}

	list, err := s.svc.Supplements.ListEffectsByUser(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *HTTPServer) listSupplementsWithEffects(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		badRequest(c, msgInvalidID)
		return
	}

	list, err := s.svc.Supplements.ListWithEffects(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, list)
}
