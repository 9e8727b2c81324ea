package service

import (
	"testing"

	"rifa/config"
	"rifa/internal/database"
	"rifa/internal/domain"
	"rifa/internal/models"
	"rifa/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack over an in-memory database.
type testEnv struct {
	db           *gorm.DB
	cfg          *config.RaffleConfig
	users        *repository.UserRepository
	raffles      *repository.RaffleRepository
	tickets      *repository.TicketRepository
	txns         *repository.TransactionRepository
	winners      *repository.WinnerRepository
	affiliates   *repository.AffiliateRepository
	ledger       *repository.LedgerRepository
	purchase     *PurchaseService
	review       *ReviewService
	draw         *DrawService
	raffleSvc    *RaffleService
	affiliateSvc *AffiliateService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection so every session sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.RaffleConfig{
		DefaultPrizePercentage:   0.70,
		DefaultCommissionRate:    0.05,
		MaxTicketsPerPurchase:    25,
		ActivityFeedDefaultLimit: 20,
		PaymentQueueLimit:        50,
		Currency:                 "PEN",
	}

	env := &testEnv{
		db:         db,
		cfg:        cfg,
		users:      repository.NewUserRepository(db),
		raffles:    repository.NewRaffleRepository(db),
		tickets:    repository.NewTicketRepository(db),
		txns:       repository.NewTransactionRepository(db),
		winners:    repository.NewWinnerRepository(db),
		affiliates: repository.NewAffiliateRepository(db),
		ledger:     repository.NewLedgerRepository(db),
	}
	env.purchase = NewPurchaseService(cfg, env.raffles, env.ledger)
	env.review = NewReviewService(cfg, env.txns, env.ledger)
	env.draw = NewDrawService(env.raffles, env.tickets, env.users, env.ledger)
	env.raffleSvc = NewRaffleService(cfg, env.raffles, env.ledger)
	env.affiliateSvc = NewAffiliateService(env.affiliates, env.txns, cfg.DefaultCommissionRate)
	return env
}

func (e *testEnv) createUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, Role: domain.RoleUser}
	require.NoError(t, e.users.Create(u))
	return u
}

func (e *testEnv) createAdmin(t *testing.T) *models.User {
	t.Helper()
	u := &models.User{Name: "Admin", Email: "admin@test.local", Role: domain.RoleAdmin}
	require.NoError(t, e.users.Create(u))
	return u
}

func (e *testEnv) createActiveRaffle(t *testing.T, price, goal float64) *models.Raffle {
	t.Helper()
	r, err := e.raffleSvc.Create(CreateRaffleInput{
		Title:       "Test Raffle",
		TicketPrice: price,
		GoalAmount:  goal,
	})
	require.NoError(t, err)
	return r
}

// buyAndApprove runs the full intake-then-approve flow, minting quantity
// tickets for the user.
func (e *testEnv) buyAndApprove(t *testing.T, raffleID uint, user *models.User, admin *models.User, quantity int) *models.PurchaseTransaction {
	t.Helper()
	txn, err := e.purchase.Purchase(raffleID, user.ID, quantity, "")
	require.NoError(t, err)
	_, err = e.review.Review(txn.ID, admin.ID, ReviewActionApprove, "")
	require.NoError(t, err)
	updated, err := e.txns.GetByID(txn.ID)
	require.NoError(t, err)
	return updated
}
