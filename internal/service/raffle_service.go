package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"rifa/config"
	"rifa/internal/domain"
	"rifa/internal/models"
	"rifa/internal/repository"

	"gorm.io/gorm"
)

// RaffleService handles raffle lifecycle: creation (which displaces any other
// active raffle) and cancellation.
type RaffleService struct {
	cfg        *config.RaffleConfig
	raffleRepo *repository.RaffleRepository
	ledger     *repository.LedgerRepository
}

func NewRaffleService(
	cfg *config.RaffleConfig,
	raffleRepo *repository.RaffleRepository,
	ledger *repository.LedgerRepository,
) *RaffleService {
	return &RaffleService{cfg: cfg, raffleRepo: raffleRepo, ledger: ledger}
}

// CreateRaffleInput is the admin creation payload.
type CreateRaffleInput struct {
	Title            string
	Description      string
	TicketPrice      float64
	GoalAmount       float64
	MaxTickets       *int
	EndDate          *time.Time
	WinnerCount      *int
	PrizePercentage  *float64
	CauseName        string
	CauseDescription string
}

// Create validates and creates an active raffle. At most one raffle is active
// system-wide: any previously active raffle is cancelled in the same database
// transaction.
func (s *RaffleService) Create(in CreateRaffleInput) (*models.Raffle, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.ValidationError("title is required")
	}
	if in.TicketPrice <= 0 {
		return nil, domain.ValidationError("ticket price must be positive")
	}
	if in.GoalAmount <= 0 {
		return nil, domain.ValidationError("goal amount must be positive")
	}
	if in.MaxTickets != nil && *in.MaxTickets <= 0 {
		return nil, domain.ValidationError("max tickets must be positive when set")
	}

	winnerCount := 1
	if in.WinnerCount != nil {
		if *in.WinnerCount < 1 {
			return nil, domain.ValidationError("winner count must be at least 1")
		}
		winnerCount = *in.WinnerCount
	}
	prizePct := s.cfg.DefaultPrizePercentage
	if in.PrizePercentage != nil {
		if *in.PrizePercentage < 0 || *in.PrizePercentage > 1 {
			return nil, domain.ValidationError("prize percentage must be between 0 and 1")
		}
		prizePct = *in.PrizePercentage
	}

	raffle := &models.Raffle{
		Title:            strings.TrimSpace(in.Title),
		Description:      in.Description,
		TicketPrice:      in.TicketPrice,
		GoalAmount:       in.GoalAmount,
		MaxTickets:       in.MaxTickets,
		StartDate:        time.Now(),
		EndDate:          in.EndDate,
		Status:           domain.RaffleStatusActive,
		WinnerCount:      winnerCount,
		PrizePercentage:  prizePct,
		CauseName:        in.CauseName,
		CauseDescription: in.CauseDescription,
	}
	if err := s.ledger.CreateExclusive(raffle); err != nil {
		return nil, err
	}
	log.Printf("[raffle] created raffle %d %q (price %.2f, goal %.2f)", raffle.ID, raffle.Title, raffle.TicketPrice, raffle.GoalAmount)
	return raffle, nil
}

// UpdateRaffleInput is a partial admin edit. Nil fields are left unchanged.
type UpdateRaffleInput struct {
	Title            *string
	Description      *string
	TicketPrice      *float64
	GoalAmount       *float64
	MaxTickets       *int
	EndDate          *time.Time
	CauseName        *string
	CauseDescription *string
}

// Update edits a raffle's display and pricing fields. Financial terms (ticket
// price, goal) lock as soon as tickets have been sold; completed raffles are
// immutable entirely.
func (s *RaffleService) Update(id uint, in UpdateRaffleInput) (*models.Raffle, error) {
	raffle, err := s.raffleRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError("raffle not found")
		}
		return nil, err
	}
	if raffle.Status == domain.RaffleStatusCompleted {
		return nil, domain.StateConflictError("raffle is completed and cannot be edited")
	}
	if raffle.TicketsSold > 0 && (in.TicketPrice != nil || in.GoalAmount != nil) {
		return nil, domain.StateConflictError("ticket price and goal are locked after tickets have been sold (%d sold)", raffle.TicketsSold)
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.ValidationError("title is required")
		}
		raffle.Title = title
	}
	if in.Description != nil {
		raffle.Description = *in.Description
	}
	if in.TicketPrice != nil {
		if *in.TicketPrice <= 0 {
			return nil, domain.ValidationError("ticket price must be positive")
		}
		raffle.TicketPrice = *in.TicketPrice
	}
	if in.GoalAmount != nil {
		if *in.GoalAmount <= 0 {
			return nil, domain.ValidationError("goal amount must be positive")
		}
		raffle.GoalAmount = *in.GoalAmount
	}
	if in.MaxTickets != nil {
		if *in.MaxTickets <= 0 {
			return nil, domain.ValidationError("max tickets must be positive when set")
		}
		if *in.MaxTickets < raffle.TicketsSold {
			return nil, domain.ValidationError("max tickets cannot be below the %d already sold", raffle.TicketsSold)
		}
		raffle.MaxTickets = in.MaxTickets
	}
	if in.EndDate != nil {
		raffle.EndDate = in.EndDate
	}
	if in.CauseName != nil {
		raffle.CauseName = *in.CauseName
	}
	if in.CauseDescription != nil {
		raffle.CauseDescription = *in.CauseDescription
	}

	if err := s.raffleRepo.Update(raffle); err != nil {
		return nil, err
	}
	return raffle, nil
}

// Cancel soft-cancels a raffle. Completed raffles are immutable.
func (s *RaffleService) Cancel(id uint) error {
	raffle, err := s.raffleRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFoundError("raffle not found")
		}
		return err
	}
	if raffle.Status == domain.RaffleStatusCompleted {
		return domain.StateConflictError("raffle is completed and cannot be cancelled")
	}
	return s.raffleRepo.UpdateStatus(id, domain.RaffleStatusCancelled)
}
