package handler

import (
	"net/http"
	"strconv"

	"rifa/internal/repository"

	"github.com/gin-gonic/gin"
)

// ActivityHandler serves the recent-purchase feed clients poll for. Only
// completed (approved) purchases appear.
type ActivityHandler struct {
	txnRepo      *repository.TransactionRepository
	defaultLimit int
}

func NewActivityHandler(txnRepo *repository.TransactionRepository, defaultLimit int) *ActivityHandler {
	return &ActivityHandler{txnRepo: txnRepo, defaultLimit: defaultLimit}
}

// Recent handles GET /activity?raffle_id=&limit=.
func (h *ActivityHandler) Recent(c *gin.Context) {
	raffleID, err := strconv.ParseUint(c.Query("raffle_id"), 10, 64)
	if err != nil || raffleID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required parameter: raffle_id"})
		return
	}
	limit := h.defaultLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	txns, err := h.txnRepo.ListCompletedByRaffle(uint(raffleID), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	activities := make([]gin.H, len(txns))
	for i, tx := range txns {
		activities[i] = gin.H{
			"id":            tx.ID,
			"user_id":       tx.UserID,
			"user_name":     tx.User.Name,
			"quantity":      tx.Quantity,
			"total_amount":  tx.TotalAmount,
			"purchase_date": tx.TransactionDate,
			"raffle_id":     tx.RaffleID,
		}
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities})
}
