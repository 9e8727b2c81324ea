package service

import (
	"testing"
	"time"

	"rifa/internal/domain"
	"rifa/internal/models"
	"rifa/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteDrawSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	admin := env.createAdmin(t)
	raffle := env.createActiveRaffle(t, 10, 500)
	env.buyAndApprove(t, raffle.ID, user, admin, 1)

	result, err := env.draw.Execute(raffle.ID)
	require.NoError(t, err)
	require.Len(t, result.Winners, 1)
	require.Len(t, result.WinnerUsers, 1)

	// with a single ticket the outcome is deterministic
	assert.Equal(t, user.ID, result.WinnerUsers[0].UserID)
	assert.Equal(t, 1, result.WinnerUsers[0].TicketNumber)
	assert.Equal(t, "Winner selected! Maria won with ticket #1!", result.Message)

	assert.Equal(t, domain.RaffleStatusCompleted, result.Raffle.Status)
	require.NotNil(t, result.Raffle.WinnerID)
	assert.Equal(t, user.ID, *result.Raffle.WinnerID)
	require.NotNil(t, result.Raffle.WinningTicketNumber)
	assert.Equal(t, 1, *result.Raffle.WinningTicketNumber)
	assert.Equal(t, "Maria", result.Raffle.WinnerName)
	assert.NotNil(t, result.Raffle.ExecutedAt)

	tickets, err := env.tickets.ListByRaffle(raffle.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.True(t, tickets[0].IsWinner)

	rows, err := env.winners.ListByRaffle(raffle.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, tickets[0].ID, rows[0].TicketID)
}

func TestExecuteDrawPrizeSplit(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	admin := env.createAdmin(t)

	three := 3
	raffle, err := env.raffleSvc.Create(CreateRaffleInput{
		Title:       "Triple Draw",
		TicketPrice: 10,
		GoalAmount:  100,
		WinnerCount: &three,
		CauseName:   "Local shelter",
	})
	require.NoError(t, err)
	env.buyAndApprove(t, raffle.ID, user, admin, 10) // pool = 100

	result, err := env.draw.Execute(raffle.ID)
	require.NoError(t, err)

	split := result.PrizeSplit
	assert.Equal(t, 100.0, split.PoolAmount)
	assert.Equal(t, 0.70, split.PrizePercentage)
	assert.InDelta(t, 70.0, split.TotalPrizeAmount, 0.0001)
	assert.InDelta(t, 23.3333, split.PrizePerWinner, 0.0001)
	assert.InDelta(t, 30.0, split.PlatformAmount, 0.0001)
	assert.Equal(t, 3, split.WinnerCount)
	assert.Equal(t, "Local shelter", split.CauseName)

	// the split conserves the pool
	assert.InDelta(t, split.PoolAmount,
		split.PrizePerWinner*float64(split.WinnerCount)+split.PlatformAmount, 0.0001)

	for _, w := range result.Winners {
		assert.InDelta(t, split.PrizePerWinner, w.PrizeAmount, 0.0001)
	}
}

func TestExecuteDrawWinnersAreDistinct(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	admin := env.createAdmin(t)

	three := 3
	raffle, err := env.raffleSvc.Create(CreateRaffleInput{
		Title:       "Triple Draw",
		TicketPrice: 2,
		GoalAmount:  100,
		WinnerCount: &three,
	})
	require.NoError(t, err)
	env.buyAndApprove(t, raffle.ID, user, admin, 10)

	result, err := env.draw.Execute(raffle.ID)
	require.NoError(t, err)
	require.Len(t, result.Winners, 3)

	seen := make(map[uint]bool)
	for _, w := range result.Winners {
		assert.False(t, seen[w.TicketID], "ticket %d drawn twice", w.TicketID)
		seen[w.TicketID] = true
	}
	positions := []int{result.Winners[0].Position, result.Winners[1].Position, result.Winners[2].Position}
	assert.Equal(t, []int{1, 2, 3}, positions)

	tickets, err := env.tickets.ListByRaffle(raffle.ID)
	require.NoError(t, err)
	flagged := 0
	for _, ticket := range tickets {
		if ticket.IsWinner {
			flagged++
			assert.True(t, seen[ticket.ID])
		}
	}
	assert.Equal(t, 3, flagged)
}

func TestExecuteDrawPoolIncludesPending(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	admin := env.createAdmin(t)
	raffle := env.createActiveRaffle(t, 10, 500)
	env.buyAndApprove(t, raffle.ID, user, admin, 10)

	// an intent still awaiting review counts toward the displayed pool
	_, err := env.purchase.Purchase(raffle.ID, user.ID, 2, "")
	require.NoError(t, err)

	result, err := env.draw.Execute(raffle.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, result.PrizeSplit.PoolAmount)
	assert.InDelta(t, 84.0, result.PrizeSplit.TotalPrizeAmount, 0.0001)
}

func TestExecuteDrawPreconditions(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	admin := env.createAdmin(t)

	_, err := env.draw.Execute(9999)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	empty := env.createActiveRaffle(t, 10, 500)
	_, err = env.draw.Execute(empty.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindCapacity, domain.KindOf(err))

	three := 3
	short, err := env.raffleSvc.Create(CreateRaffleInput{
		Title:       "Short Pool",
		TicketPrice: 10,
		GoalAmount:  500,
		WinnerCount: &three,
	})
	require.NoError(t, err)
	env.buyAndApprove(t, short.ID, user, admin, 2)
	_, err = env.draw.Execute(short.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindCapacity, domain.KindOf(err))
	assert.Contains(t, err.Error(), "3 winners requested but only 2 tickets sold")
}

func TestExecuteDrawIsNotRepeatable(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	admin := env.createAdmin(t)
	raffle := env.createActiveRaffle(t, 10, 500)
	env.buyAndApprove(t, raffle.ID, user, admin, 3)

	_, err := env.draw.Execute(raffle.ID)
	require.NoError(t, err)

	_, err = env.draw.Execute(raffle.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindStateConflict, domain.KindOf(err))

	rows, err := env.winners.ListByRaffle(raffle.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "a repeated execute must not create winners")
}

func TestSettleDrawGuardsOnActiveStatus(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Maria", "maria@test.local")
	admin := env.createAdmin(t)
	raffle := env.createActiveRaffle(t, 10, 500)
	env.buyAndApprove(t, raffle.ID, user, admin, 1)

	_, err := env.draw.Execute(raffle.ID)
	require.NoError(t, err)

	// a settlement that raced past the service-level status check is still
	// rejected inside the transaction
	tickets, err := env.tickets.ListByRaffle(raffle.ID)
	require.NoError(t, err)
	now := time.Now()
	err = env.ledger.SettleDraw(&repository.DrawSettlement{
		RaffleID:   raffle.ID,
		ExecutedAt: now,
		Winners: []models.Winner{{
			RaffleID:    raffle.ID,
			UserID:      user.ID,
			TicketID:    tickets[0].ID,
			PrizeAmount: 1,
			Position:    1,
			AnnouncedAt: now,
		}},
		TicketIDs: []uint{tickets[0].ID},
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindStateConflict, domain.KindOf(err))

	rows, err := env.winners.ListByRaffle(raffle.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "the losing settlement must write nothing")
}
