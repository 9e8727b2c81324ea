package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"rifa/internal/domain"
	"rifa/internal/models"
	"rifa/internal/repository"

	"gorm.io/gorm"
)

var affiliateCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// AffiliateService manages referral partners and computes their earnings on
// demand from completed transactions on completed raffles.
type AffiliateService struct {
	affiliateRepo *repository.AffiliateRepository
	txnRepo       *repository.TransactionRepository
	defaultRate   float64
}

func NewAffiliateService(
	affiliateRepo *repository.AffiliateRepository,
	txnRepo *repository.TransactionRepository,
	defaultRate float64,
) *AffiliateService {
	return &AffiliateService{affiliateRepo: affiliateRepo, txnRepo: txnRepo, defaultRate: defaultRate}
}

// AffiliateInput is the create/update payload. Nil fields are left unchanged
// on update.
type AffiliateInput struct {
	Code           *string
	Name           *string
	Email          *string
	CommissionRate *float64
	Active         *bool
}

func (s *AffiliateService) validateCode(code string) (string, error) {
	if !affiliateCodePattern.MatchString(code) {
		return "", domain.ValidationError("code must contain only letters, numbers, underscores, and hyphens")
	}
	return strings.ToUpper(code), nil
}

func (s *AffiliateService) validateRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return domain.ValidationError("commission rate must be between 0 and 1 (e.g. 0.05 for 5%%)")
	}
	return nil
}

func (s *AffiliateService) Create(code, name, email string, commissionRate *float64) (*models.Affiliate, error) {
	if code == "" || name == "" || email == "" {
		return nil, domain.ValidationError("code, name, and email are required")
	}
	normalized, err := s.validateCode(code)
	if err != nil {
		return nil, err
	}
	rate := s.defaultRate
	if commissionRate != nil {
		rate = *commissionRate
	}
	if err := s.validateRate(rate); err != nil {
		return nil, err
	}
	if _, err := s.affiliateRepo.GetByCode(normalized); err == nil {
		return nil, domain.ConflictError("an affiliate with code %s already exists", normalized)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	a := &models.Affiliate{
		Code:           normalized,
		Name:           name,
		Email:          email,
		CommissionRate: rate,
		Active:         true,
	}
	if err := s.affiliateRepo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AffiliateService) Get(id uint) (*models.Affiliate, error) {
	a, err := s.affiliateRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError("affiliate not found")
		}
		return nil, err
	}
	return a, nil
}

func (s *AffiliateService) List(includeInactive bool) ([]models.Affiliate, error) {
	return s.affiliateRepo.List(includeInactive)
}

func (s *AffiliateService) Update(id uint, in AffiliateInput) (*models.Affiliate, error) {
	a, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil && !strings.EqualFold(*in.Code, a.Code) {
		normalized, err := s.validateCode(*in.Code)
		if err != nil {
			return nil, err
		}
		if _, err := s.affiliateRepo.GetByCode(normalized); err == nil {
			return nil, domain.ConflictError("an affiliate with code %s already exists", normalized)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		a.Code = normalized
	}
	if in.Name != nil {
		a.Name = *in.Name
	}
	if in.Email != nil {
		a.Email = *in.Email
	}
	if in.CommissionRate != nil {
		if err := s.validateRate(*in.CommissionRate); err != nil {
			return nil, err
		}
		a.CommissionRate = *in.CommissionRate
	}
	if in.Active != nil {
		a.Active = *in.Active
	}
	if err := s.affiliateRepo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete deactivates an affiliate; historical earnings attribution survives.
func (s *AffiliateService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.affiliateRepo.SoftDelete(id)
}

// Earning is one (affiliate, raffle) aggregation row.
type Earning struct {
	AffiliateID   uint    `json:"affiliate_id"`
	AffiliateCode string  `json:"affiliate_code"`
	AffiliateName string  `json:"affiliate_name"`
	RaffleID      uint    `json:"raffle_id"`
	RaffleTitle   string  `json:"raffle_title"`
	TotalSales    float64 `json:"total_sales"`
	Commission    float64 `json:"commission"`
}

// EarningsSummary is the rollup over all earning rows.
type EarningsSummary struct {
	TotalSales      float64 `json:"total_sales"`
	TotalCommission float64 `json:"total_commission"`
	AffiliateCount  int     `json:"affiliate_count"`
	RaffleCount     int     `json:"raffle_count"`
}

// Earnings aggregates commission owed per affiliate per completed raffle.
// Only completed transactions on completed raffles count; commission uses the
// affiliate's current rate at query time.
func (s *AffiliateService) Earnings(raffleID uint) ([]Earning, EarningsSummary, error) {
	txns, err := s.txnRepo.ListCompletedWithAffiliate(raffleID)
	if err != nil {
		return nil, EarningsSummary{}, err
	}
	affiliates, err := s.affiliateRepo.List(true)
	if err != nil {
		return nil, EarningsSummary{}, err
	}
	byCode := make(map[string]models.Affiliate, len(affiliates))
	for _, a := range affiliates {
		byCode[a.Code] = a
	}

	rows := make(map[string]*Earning)
	var order []string
	for _, txn := range txns {
		if txn.Raffle.Status != domain.RaffleStatusCompleted || txn.AffiliateCode == nil {
			continue
		}
		affiliate, ok := byCode[*txn.AffiliateCode]
		if !ok {
			continue
		}
		key := fmt.Sprintf("%s-%d", affiliate.Code, txn.RaffleID)
		row, ok := rows[key]
		if !ok {
			row = &Earning{
				AffiliateID:   affiliate.ID,
				AffiliateCode: affiliate.Code,
				AffiliateName: affiliate.Name,
				RaffleID:      txn.RaffleID,
				RaffleTitle:   txn.Raffle.Title,
			}
			rows[key] = row
			order = append(order, key)
		}
		row.TotalSales += txn.TotalAmount
		row.Commission = row.TotalSales * affiliate.CommissionRate
	}

	earnings := make([]Earning, 0, len(order))
	summary := EarningsSummary{}
	affiliateSeen := make(map[uint]bool)
	raffleSeen := make(map[uint]bool)
	for _, key := range order {
		row := rows[key]
		earnings = append(earnings, *row)
		summary.TotalSales += row.TotalSales
		summary.TotalCommission += row.Commission
		affiliateSeen[row.AffiliateID] = true
		raffleSeen[row.RaffleID] = true
	}
	summary.AffiliateCount = len(affiliateSeen)
	summary.RaffleCount = len(raffleSeen)
	return earnings, summary, nil
}
