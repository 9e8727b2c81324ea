package service

import (
	"sort"
	"testing"

	"rifa/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveMintsTickets(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	admin := env.createAdmin(t)
	raffle := env.createActiveRaffle(t, 5, 100)

	txn, err := env.purchase.Purchase(raffle.ID, user.ID, 3, "")
	require.NoError(t, err)

	minted, err := env.review.Review(txn.ID, admin.ID, ReviewActionApprove, "looks good")
	require.NoError(t, err)
	assert.Equal(t, 3, minted)

	tickets, err := env.tickets.ListByRaffle(raffle.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	for i, ticket := range tickets {
		assert.Equal(t, i+1, ticket.TicketNumber)
		assert.Equal(t, user.ID, ticket.UserID)
		assert.Equal(t, 5.0, ticket.PurchaseAmount)
		assert.False(t, ticket.IsWinner)
	}

	updated, err := env.txns.GetByID(txn.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusCompleted, updated.Status)
	assert.Len(t, updated.TicketIDs, 3)
	assert.NotNil(t, updated.ReviewedAt)
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, admin.ID, *updated.ReviewedBy)
	assert.Equal(t, "looks good", updated.AdminNotes)

	reloaded, err := env.raffles.GetByID(raffle.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.TicketsSold)
	assert.Equal(t, 0.0, reloaded.PendingAmount, "pending moved to confirmed")
	assert.Equal(t, 15.0, reloaded.ConfirmedAmount)
	assert.Equal(t, 15.0, reloaded.CurrentAmount)
}

func TestTicketNumberingStaysSequential(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin(t)
	alice := env.createUser(t, "Alice", "alice@test.local")
	bob := env.createUser(t, "Bob", "bob@test.local")
	raffle := env.createActiveRaffle(t, 2, 500)

	env.buyAndApprove(t, raffle.ID, alice, admin, 4)
	env.buyAndApprove(t, raffle.ID, bob, admin, 1)
	env.buyAndApprove(t, raffle.ID, alice, admin, 7)

	tickets, err := env.tickets.ListByRaffle(raffle.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 12)

	numbers := make([]int, len(tickets))
	for i, ticket := range tickets {
		numbers[i] = ticket.TicketNumber
	}
	sort.Ints(numbers)
	for i, n := range numbers {
		assert.Equal(t, i+1, n, "numbers must be exactly 1..ticketsSold with no gaps")
	}

	reloaded, err := env.raffles.GetByID(raffle.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, reloaded.TicketsSold)
}

func TestApproveIsNotRepeatable(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	admin := env.createAdmin(t)
	raffle := env.createActiveRaffle(t, 5, 100)
	txn := env.buyAndApprove(t, raffle.ID, user, admin, 2)

	_, err := env.review.Review(txn.ID, admin.ID, ReviewActionApprove, "")
	require.Error(t, err)
	assert.Equal(t, domain.KindStateConflict, domain.KindOf(err))
	assert.Contains(t, err.Error(), "completed")

	count, err := env.tickets.CountByRaffle(raffle.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count, "re-approval must not mint more tickets")

	reloaded, err := env.raffles.GetByID(raffle.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.TicketsSold)
}

func TestRejectRequiresNotes(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	admin := env.createAdmin(t)
	raffle := env.createActiveRaffle(t, 5, 100)

	txn, err := env.purchase.Purchase(raffle.ID, user.ID, 2, "")
	require.NoError(t, err)

	_, err = env.review.Review(txn.ID, admin.ID, ReviewActionReject, "  ")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	// still pending, so a proper reject succeeds
	_, err = env.review.Review(txn.ID, admin.ID, ReviewActionReject, "proof does not match amount")
	require.NoError(t, err)

	updated, err := env.txns.GetByID(txn.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusRejected, updated.Status)
	assert.Equal(t, "proof does not match amount", updated.AdminNotes)
	assert.Empty(t, updated.TicketIDs)

	count, err := env.tickets.CountByRaffle(raffle.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	reloaded, err := env.raffles.GetByID(raffle.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, reloaded.PendingAmount, "rejection releases the pending contribution")
	assert.Equal(t, 0.0, reloaded.CurrentAmount)
}

func TestRejectIsNotRepeatable(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	admin := env.createAdmin(t)
	raffle := env.createActiveRaffle(t, 5, 100)

	txn, err := env.purchase.Purchase(raffle.ID, user.ID, 1, "")
	require.NoError(t, err)
	_, err = env.review.Review(txn.ID, admin.ID, ReviewActionReject, "bad proof")
	require.NoError(t, err)

	_, err = env.review.Review(txn.ID, admin.ID, ReviewActionReject, "again")
	require.Error(t, err)
	assert.Equal(t, domain.KindStateConflict, domain.KindOf(err))

	_, err = env.review.Review(txn.ID, admin.ID, ReviewActionApprove, "")
	require.Error(t, err)
	assert.Equal(t, domain.KindStateConflict, domain.KindOf(err))
}

func TestReviewInvalidAction(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin(t)

	_, err := env.review.Review(1, admin.ID, "escalate", "")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestReviewUnknownTransaction(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin(t)

	_, err := env.review.Review(9999, admin.ID, ReviewActionApprove, "")
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestSubmitProofMovesToPendingReview(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	raffle := env.createActiveRaffle(t, 5, 100)

	txn, err := env.purchase.Purchase(raffle.ID, user.ID, 1, "")
	require.NoError(t, err)

	_, err = env.review.SubmitProof(txn.ID, "")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	updated, err := env.review.SubmitProof(txn.ID, "https://res.cloudinary.com/demo/proof.png")
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusPendingReview, updated.Status)
	assert.Equal(t, "https://res.cloudinary.com/demo/proof.png", updated.PaymentProofURL)
}

func TestSubmitProofOnTerminalTransaction(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	admin := env.createAdmin(t)
	raffle := env.createActiveRaffle(t, 5, 100)
	txn := env.buyAndApprove(t, raffle.ID, user, admin, 1)

	_, err := env.review.SubmitProof(txn.ID, "https://example.com/late.png")
	require.Error(t, err)
	assert.Equal(t, domain.KindStateConflict, domain.KindOf(err))
}

func TestPaymentQueueFilters(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	admin := env.createAdmin(t)
	raffle := env.createActiveRaffle(t, 5, 100)

	pending, err := env.purchase.Purchase(raffle.ID, user.ID, 1, "")
	require.NoError(t, err)
	env.buyAndApprove(t, raffle.ID, user, admin, 1)

	queue, err := env.review.ListQueue("")
	require.NoError(t, err)
	require.Len(t, queue, 1, "default queue holds only awaiting-action transactions")
	assert.Equal(t, pending.ID, queue[0].ID)

	all, err := env.review.ListQueue("all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed, err := env.review.ListQueue(domain.TxStatusCompleted)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestPaymentQueueCap(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.PaymentQueueLimit = 2
	user := env.createUser(t, "Maria", "maria@test.local")
	raffle := env.createActiveRaffle(t, 5, 100)

	for i := 0; i < 3; i++ {
		_, err := env.purchase.Purchase(raffle.ID, user.ID, 1, "")
		require.NoError(t, err)
	}

	queue, err := env.review.ListQueue("")
	require.NoError(t, err)
	assert.Len(t, queue, 2, "queue returns at most the configured cap")
}
