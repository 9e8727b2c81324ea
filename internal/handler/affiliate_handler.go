package handler

import (
	"net/http"
	"strconv"

	"rifa/internal/service"

	"github.com/gin-gonic/gin"
)

type AffiliateHandler struct {
	svc *service.AffiliateService
}

func NewAffiliateHandler(svc *service.AffiliateService) *AffiliateHandler {
	return &AffiliateHandler{svc: svc}
}

// List handles GET /admin/affiliates?includeInactive=.
func (h *AffiliateHandler) List(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true"
	affiliates, err := h.svc.List(includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affiliates": affiliates, "count": len(affiliates)})
}

type CreateAffiliateRequest struct {
	Code           string   `json:"code" binding:"required"`
	Name           string   `json:"name" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	CommissionRate *float64 `json:"commission_rate"`
}

// Create handles POST /admin/affiliates.
func (h *AffiliateHandler) Create(c *gin.Context) {
	var req CreateAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	affiliate, err := h.svc.Create(req.Code, req.Name, req.Email, req.CommissionRate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"affiliate": affiliate, "success": true})
}

// Get handles GET /admin/affiliates/:id.
func (h *AffiliateHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid affiliate id"})
		return
	}
	affiliate, err := h.svc.Get(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affiliate": affiliate})
}

type UpdateAffiliateRequest struct {
	Code           *string  `json:"code"`
	Name           *string  `json:"name"`
	Email          *string  `json:"email"`
	CommissionRate *float64 `json:"commission_rate"`
	Active         *bool    `json:"active"`
}

// Update handles PATCH /admin/affiliates/:id.
func (h *AffiliateHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid affiliate id"})
		return
	}
	var req UpdateAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	affiliate, err := h.svc.Update(uint(id), service.AffiliateInput{
		Code:           req.Code,
		Name:           req.Name,
		Email:          req.Email,
		CommissionRate: req.CommissionRate,
		Active:         req.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affiliate": affiliate, "success": true})
}

// Delete handles DELETE /admin/affiliates/:id: soft delete, keeps attribution.
func (h *AffiliateHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid affiliate id"})
		return
	}
	if err := h.svc.Delete(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Earnings handles GET /admin/affiliates/earnings?raffle_id=.
func (h *AffiliateHandler) Earnings(c *gin.Context) {
	var raffleID uint64
	if v := c.Query("raffle_id"); v != "" {
		var err error
		raffleID, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid raffle_id"})
			return
		}
	}
	earnings, summary, err := h.svc.Earnings(uint(raffleID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"earnings": earnings, "summary": summary})
}
