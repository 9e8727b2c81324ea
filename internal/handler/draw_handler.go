package handler

import (
	"net/http"

	"rifa/internal/service"

	"github.com/gin-gonic/gin"
)

type DrawHandler struct {
	svc *service.DrawService
}

func NewDrawHandler(svc *service.DrawService) *DrawHandler {
	return &DrawHandler{svc: svc}
}

type ExecuteRequest struct {
	RaffleID uint `json:"raffle_id" binding:"required"`
}

// Execute handles POST /execute-raffle (admin).
func (h *DrawHandler) Execute(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field: raffle_id"})
		return
	}
	result, err := h.svc.Execute(req.RaffleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"winners":         result.Winners,
		"winning_tickets": result.WinningTickets,
		"winner_users":    result.WinnerUsers,
		"raffle":          result.Raffle,
		"prize_split":     result.PrizeSplit,
		"message":         result.Message,
	})
}
