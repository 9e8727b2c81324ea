package handler

import (
	"net/http"
	"strconv"

	"rifa/internal/repository"
	"rifa/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	svc        *service.PurchaseService
	ticketRepo *repository.TicketRepository
}

func NewTicketHandler(svc *service.PurchaseService, ticketRepo *repository.TicketRepository) *TicketHandler {
	return &TicketHandler{svc: svc, ticketRepo: ticketRepo}
}

type PurchaseRequest struct {
	RaffleID      uint   `json:"raffle_id" binding:"required"`
	UserID        uint   `json:"user_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required"`
	AffiliateCode string `json:"affiliate_code"` // from the referral cookie, optional
}

// Purchase handles POST /tickets: records a purchase intent awaiting Yape
// payment. No tickets exist until an admin approves the payment.
func (h *TicketHandler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txn, err := h.svc.Purchase(req.RaffleID, req.UserID, req.Quantity, req.AffiliateCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"transaction":    txn,
		"reference_code": txn.ReferenceCode(),
		"success":        true,
	})
}

// ListMine handles GET /tickets?raffle_id=&user_id=.
func (h *TicketHandler) ListMine(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required parameter: user_id"})
		return
	}
	var raffleID uint64
	if v := c.Query("raffle_id"); v != "" {
		raffleID, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid raffle_id"})
			return
		}
	}
	tickets, err := h.ticketRepo.ListByUser(uint(userID), uint(raffleID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}
