package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	RaffleStatusActive    = "active"
	RaffleStatusCompleted = "completed"
	RaffleStatusCancelled = "cancelled"
)

const (
	// Waiting for the buyer to send the Yape payment.
	TxStatusPendingPayment = "pending_payment"
	// Proof submitted, waiting for admin review.
	TxStatusPendingReview = "pending_review"
	TxStatusCompleted     = "completed"
	TxStatusRejected      = "rejected"
	TxStatusFailed        = "failed"
)

const PaymentMethodYape = "yape"

// MinPurchaseQuantity is the hard floor; the per-purchase ceiling is
// configurable (config.RaffleConfig.MaxTicketsPerPurchase).
const MinPurchaseQuantity = 1

// IsTerminalTxStatus reports whether a transaction can no longer be reviewed.
func IsTerminalTxStatus(status string) bool {
	return status == TxStatusCompleted || status == TxStatusRejected
}
