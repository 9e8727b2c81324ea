package handler

import (
	"net/http"
	"strconv"

	"rifa/internal/middleware"
	"rifa/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminPaymentHandler struct {
	svc *service.ReviewService
}

func NewAdminPaymentHandler(svc *service.ReviewService) *AdminPaymentHandler {
	return &AdminPaymentHandler{svc: svc}
}

// List handles GET /admin/payments?status=. Without a status it returns the
// pending set (pending_payment and pending_review), newest first.
func (h *AdminPaymentHandler) List(c *gin.Context) {
	txns, err := h.svc.ListQueue(c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, len(txns))
	for i, tx := range txns {
		out[i] = gin.H{
			"id":                tx.ID,
			"reference_code":    tx.ReferenceCode(),
			"user_id":           tx.UserID,
			"user_name":         tx.User.Name,
			"user_email":        tx.User.Email,
			"raffle_id":         tx.RaffleID,
			"raffle_title":      tx.Raffle.Title,
			"quantity":          tx.Quantity,
			"total_amount":      tx.TotalAmount,
			"status":            tx.Status,
			"transaction_date":  tx.TransactionDate,
			"payment_method":    tx.PaymentMethod,
			"payment_proof_url": tx.PaymentProofURL,
			"admin_notes":       tx.AdminNotes,
			"reviewed_at":       tx.ReviewedAt,
			"reviewed_by":       tx.ReviewedBy,
			"ticket_ids":        tx.TicketIDs,
		}
	}
	c.JSON(http.StatusOK, gin.H{"transactions": out, "count": len(out)})
}

type ReviewRequest struct {
	Action string `json:"action" binding:"required"`
	Notes  string `json:"notes"`
}

// Review handles PATCH /admin/payments/:id with action approve or reject.
func (h *AdminPaymentHandler) Review(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adminID := middleware.GetUserID(c)
	ticketCount, err := h.svc.Review(uint(id), adminID, req.Action, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Action == service.ReviewActionApprove {
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"message":      "Payment approved and tickets created",
			"ticket_count": ticketCount,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment rejected"})
}
