package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"rifa/internal/repository"
	"rifa/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RaffleHandler struct {
	svc        *service.RaffleService
	raffleRepo *repository.RaffleRepository
	winnerRepo *repository.WinnerRepository
}

func NewRaffleHandler(svc *service.RaffleService, raffleRepo *repository.RaffleRepository, winnerRepo *repository.WinnerRepository) *RaffleHandler {
	return &RaffleHandler{svc: svc, raffleRepo: raffleRepo, winnerRepo: winnerRepo}
}

// List handles GET /raffles. status=active and status=recent-completed return
// a single raffle (or null); other statuses and the unfiltered form return a
// list.
func (h *RaffleHandler) List(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "active":
		raffle, err := h.raffleRepo.GetActive()
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"raffle": nil})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"raffle": raffle})
	case "recent-completed":
		raffle, err := h.raffleRepo.GetMostRecentCompleted()
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"raffle": nil})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"raffle": raffle})
	case "":
		raffles, err := h.raffleRepo.ListAll()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"raffles": raffles})
	default:
		raffles, err := h.raffleRepo.ListByStatus(status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"raffles": raffles})
	}
}

// Get handles GET /raffles/:id.
func (h *RaffleHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid raffle id"})
		return
	}
	raffle, err := h.raffleRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "raffle not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"raffle": raffle})
}

type CreateRaffleRequest struct {
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	TicketPrice      float64  `json:"ticket_price" binding:"required"`
	GoalAmount       float64  `json:"goal_amount" binding:"required"`
	MaxTickets       *int     `json:"max_tickets"`
	EndDate          string   `json:"end_date"` // ISO date, optional
	WinnerCount      *int     `json:"winner_count"`
	PrizePercentage  *float64 `json:"prize_percentage"`
	CauseName        string   `json:"cause_name"`
	CauseDescription string   `json:"cause_description"`
}

// Create handles POST /raffles (admin). Creating an active raffle cancels any
// previously active one.
func (h *RaffleHandler) Create(c *gin.Context) {
	var req CreateRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var endDate *time.Time
	if req.EndDate != "" {
		t, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format (use RFC3339)"})
			return
		}
		endDate = &t
	}
	raffle, err := h.svc.Create(service.CreateRaffleInput{
		Title:            req.Title,
		Description:      req.Description,
		TicketPrice:      req.TicketPrice,
		GoalAmount:       req.GoalAmount,
		MaxTickets:       req.MaxTickets,
		EndDate:          endDate,
		WinnerCount:      req.WinnerCount,
		PrizePercentage:  req.PrizePercentage,
		CauseName:        req.CauseName,
		CauseDescription: req.CauseDescription,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"raffle": raffle, "success": true})
}

type UpdateRaffleRequest struct {
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	TicketPrice      *float64 `json:"ticket_price"`
	GoalAmount       *float64 `json:"goal_amount"`
	MaxTickets       *int     `json:"max_tickets"`
	EndDate          *string  `json:"end_date"` // ISO date, optional
	CauseName        *string  `json:"cause_name"`
	CauseDescription *string  `json:"cause_description"`
}

// Update handles PATCH /raffles/:id (admin). Price and goal edits are rejected
// once tickets have been sold.
func (h *RaffleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid raffle id"})
		return
	}
	var req UpdateRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		t, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format (use RFC3339)"})
			return
		}
		endDate = &t
	}
	raffle, err := h.svc.Update(uint(id), service.UpdateRaffleInput{
		Title:            req.Title,
		Description:      req.Description,
		TicketPrice:      req.TicketPrice,
		GoalAmount:       req.GoalAmount,
		MaxTickets:       req.MaxTickets,
		EndDate:          endDate,
		CauseName:        req.CauseName,
		CauseDescription: req.CauseDescription,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"raffle": raffle, "success": true})
}

// Cancel handles DELETE /raffles/:id (admin): soft status change, never a row
// delete.
func (h *RaffleHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid raffle id"})
		return
	}
	if err := h.svc.Cancel(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Winners handles GET /raffles/:id/winners, ordered by position.
func (h *RaffleHandler) Winners(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid raffle id"})
		return
	}
	winners, err := h.winnerRepo.ListByRaffle(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, len(winners))
	for i, w := range winners {
		out[i] = gin.H{
			"id":            w.ID,
			"raffle_id":     w.RaffleID,
			"user_id":       w.UserID,
			"user_name":     w.User.Name,
			"ticket_id":     w.TicketID,
			"ticket_number": w.Ticket.TicketNumber,
			"prize_amount":  w.PrizeAmount,
			"position":      w.Position,
			"announced_at":  w.AnnouncedAt,
			"claimed_at":    w.ClaimedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"winners": out})
}
