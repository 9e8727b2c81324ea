package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"rifa/internal/domain"
	"rifa/internal/models"
	"rifa/internal/repository"

	"gorm.io/gorm"
)

// DrawService selects winning tickets uniformly at random without replacement
// and settles the prize split.
type DrawService struct {
	raffleRepo *repository.RaffleRepository
	ticketRepo *repository.TicketRepository
	userRepo   *repository.UserRepository
	ledger     *repository.LedgerRepository
}

func NewDrawService(
	raffleRepo *repository.RaffleRepository,
	ticketRepo *repository.TicketRepository,
	userRepo *repository.UserRepository,
	ledger *repository.LedgerRepository,
) *DrawService {
	return &DrawService{raffleRepo: raffleRepo, ticketRepo: ticketRepo, userRepo: userRepo, ledger: ledger}
}

// PrizeSplit is the settlement breakdown for a completed draw.
type PrizeSplit struct {
	PoolAmount       float64 `json:"pool_amount"`
	PrizePercentage  float64 `json:"prize_percentage"`
	TotalPrizeAmount float64 `json:"total_prize_amount"`
	PrizePerWinner   float64 `json:"prize_per_winner"`
	PlatformAmount   float64 `json:"platform_amount"`
	WinnerCount      int     `json:"winner_count"`
	CauseName        string  `json:"cause_name,omitempty"`
}

// WinnerInfo pairs a winner with display fields for the announcement.
type WinnerInfo struct {
	Position     int     `json:"position"`
	UserID       uint    `json:"user_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	TicketID     uint    `json:"ticket_id"`
	TicketNumber int     `json:"ticket_number"`
	PrizeAmount  float64 `json:"prize_amount"`
}

// DrawResult is the full outcome of an executed draw.
type DrawResult struct {
	Winners        []models.Winner `json:"winners"`
	WinningTickets []models.Ticket `json:"winning_tickets"`
	WinnerUsers    []WinnerInfo    `json:"winner_users"`
	Raffle         *models.Raffle  `json:"raffle"`
	PrizeSplit     PrizeSplit      `json:"prize_split"`
	Message        string          `json:"message"`
}

// Execute runs the draw for a raffle: winnerCount tickets are drawn uniformly
// from the minted pool, winner rows are created in draw order, and the raffle
// is completed. Draw order defines position; position 1 also populates the
// raffle's single-winner convenience fields.
func (s *DrawService) Execute(raffleID uint) (*DrawResult, error) {
	raffle, err := s.raffleRepo.GetByID(raffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError("raffle not found")
		}
		return nil, err
	}
	if raffle.Status != domain.RaffleStatusActive {
		return nil, domain.StateConflictError("raffle is %s, cannot execute", raffle.Status)
	}

	tickets, err := s.ticketRepo.ListByRaffle(raffleID)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, domain.CapacityError("cannot execute a raffle with no tickets sold")
	}
	winnerCount := raffle.WinnerCount
	if winnerCount < 1 {
		winnerCount = 1
	}
	if len(tickets) < winnerCount {
		return nil, domain.CapacityError("insufficient tickets for draw: %d winners requested but only %d tickets sold",
			winnerCount, len(tickets))
	}

	selected, err := drawWithoutReplacement(tickets, winnerCount)
	if err != nil {
		return nil, err
	}

	pool := raffle.Pool()
	totalPrize := pool * raffle.PrizePercentage
	prizePerWinner := totalPrize / float64(winnerCount)
	platform := pool - totalPrize

	executedAt := time.Now()
	settlement := &repository.DrawSettlement{
		RaffleID:   raffleID,
		ExecutedAt: executedAt,
		Winners:    make([]models.Winner, 0, winnerCount),
		TicketIDs:  make([]uint, 0, winnerCount),
	}
	infos := make([]WinnerInfo, 0, winnerCount)

	for i, ticket := range selected {
		user, err := s.userRepo.GetByID(ticket.UserID)
		if err != nil {
			return nil, err
		}
		position := i + 1
		settlement.Winners = append(settlement.Winners, models.Winner{
			RaffleID:    raffleID,
			UserID:      ticket.UserID,
			TicketID:    ticket.ID,
			PrizeAmount: prizePerWinner,
			Position:    position,
			AnnouncedAt: executedAt,
		})
		settlement.TicketIDs = append(settlement.TicketIDs, ticket.ID)
		infos = append(infos, WinnerInfo{
			Position:     position,
			UserID:       user.ID,
			Name:         user.Name,
			Email:        user.Email,
			TicketID:     ticket.ID,
			TicketNumber: ticket.TicketNumber,
			PrizeAmount:  prizePerWinner,
		})
		if position == 1 {
			settlement.WinnerID = ticket.UserID
			settlement.WinningTicketID = ticket.ID
			settlement.WinningTicketNumber = ticket.TicketNumber
			settlement.WinnerName = user.Name
		}
	}

	if err := s.ledger.SettleDraw(settlement); err != nil {
		return nil, err
	}
	log.Printf("[draw] raffle %d executed: %d winners, prize %.2f each", raffleID, winnerCount, prizePerWinner)

	updated, err := s.raffleRepo.GetByID(raffleID)
	if err != nil {
		return nil, err
	}
	for i := range selected {
		selected[i].IsWinner = true
	}

	return &DrawResult{
		Winners:        settlement.Winners,
		WinningTickets: selected,
		WinnerUsers:    infos,
		Raffle:         updated,
		PrizeSplit: PrizeSplit{
			PoolAmount:       pool,
			PrizePercentage:  raffle.PrizePercentage,
			TotalPrizeAmount: totalPrize,
			PrizePerWinner:   prizePerWinner,
			PlatformAmount:   platform,
			WinnerCount:      winnerCount,
			CauseName:        raffle.CauseName,
		},
		Message: fmt.Sprintf("Winner selected! %s won with ticket #%d!",
			settlement.WinnerName, settlement.WinningTicketNumber),
	}, nil
}

// drawWithoutReplacement picks n tickets uniformly from the pool. Each pick
// draws a uniform index over the remaining tickets and removes the ticket, so
// every ticket has equal probability and none is selected twice.
func drawWithoutReplacement(pool []models.Ticket, n int) ([]models.Ticket, error) {
	remaining := make([]models.Ticket, len(pool))
	copy(remaining, pool)
	selected := make([]models.Ticket, 0, n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(remaining))))
		if err != nil {
			return nil, err
		}
		j := int(idx.Int64())
		selected = append(selected, remaining[j])
		remaining[j] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
	}
	return selected, nil
}
