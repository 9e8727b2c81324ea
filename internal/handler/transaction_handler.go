package handler

import (
	"net/http"
	"strconv"
	"strings"

	"rifa/internal/service"
	"rifa/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	svc   *service.ReviewService
	cloud cloudinary.Client
}

func NewTransactionHandler(svc *service.ReviewService, cloud cloudinary.Client) *TransactionHandler {
	return &TransactionHandler{svc: svc, cloud: cloud}
}

// SubmitProof handles POST /transactions/:id/proof. Accepts a multipart
// screenshot upload (field "file") or a pre-uploaded URL (field "proof_url"),
// and moves the transaction to pending_review.
func (h *TransactionHandler) SubmitProof(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	proofURL := c.PostForm("proof_url")
	if file, err := c.FormFile("file"); err == nil {
		if h.cloud == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is not configured; send proof_url instead"})
			return
		}
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
			return
		}
		defer f.Close()
		publicID := "proof_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
		proofURL, err = h.cloud.UploadImage(c.Request.Context(), f, "rifa/proofs", publicID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}
	}

	txn, err := h.svc.SubmitProof(uint(id), proofURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn, "success": true})
}
