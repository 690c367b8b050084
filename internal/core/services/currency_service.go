package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/dto"
)

// SystemUserID is recorded as the author of seeded reference data.
const SystemUserID = "system"

// defaultCurrencies is the reference data seeded at startup.
var defaultCurrencies = []domain.Currency{
	{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2, IsActive: true},
	{CurrencyCode: "EUR", Symbol: "€", Name: "Euro", Precision: 2, IsActive: true},
	{CurrencyCode: "GBP", Symbol: "£", Name: "British Pound", Precision: 2, IsActive: true},
	{CurrencyCode: "JPY", Symbol: "¥", Name: "Japanese Yen", Precision: 0, IsActive: true},
	{CurrencyCode: "INR", Symbol: "₹", Name: "Indian Rupee", Precision: 2, IsActive: true},
	{CurrencyCode: "CAD", Symbol: "C$", Name: "Canadian Dollar", Precision: 2, IsActive: true},
	{CurrencyCode: "AUD", Symbol: "A$", Name: "Australian Dollar", Precision: 2, IsActive: true},
	{CurrencyCode: "CHF", Symbol: "CHF", Name: "Swiss Franc", Precision: 2, IsActive: true},
	{CurrencyCode: "CNY", Symbol: "¥", Name: "Chinese Yuan", Precision: 2, IsActive: true},
	{CurrencyCode: "KWD", Symbol: "KD", Name: "Kuwaiti Dinar", Precision: 3, IsActive: true},
}

type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryWithTx
	clock        func() time.Time
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryWithTx) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo, clock: time.Now}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	code, err := domain.NormalizeCurrencyCode(req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("currency name is required")
	}

	precision := domain.DefaultPrecision
	if req.Precision != nil {
		if *req.Precision < 0 {
			return nil, apperrors.NewValidationError("precision must not be negative")
		}
		precision = *req.Precision
	}

	now := s.clock().UTC()
	currency := domain.Currency{
		CurrencyCode: code,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    precision,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(creatorUserID, now),
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save currency", slog.String("currency_code", code))
		}
		return nil, fmt.Errorf("failed to create currency %s: %w", code, err)
	}

	s.LogInfo(ctx, "Currency created", slog.String("currency_code", code))
	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	code, err := domain.NormalizeCurrencyCode(currencyCode)
	if err != nil {
		return nil, err
	}
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find currency", slog.String("currency_code", code))
		}
		return nil, err
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx, activeOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currencies")
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

func (s *currencyService) PrecisionFor(ctx context.Context, currencyCode string) int {
	currency, err := s.GetCurrencyByCode(ctx, currencyCode)
	if err != nil || currency.Precision < 0 {
		return domain.DefaultPrecision
	}
	return currency.Precision
}

// InitializeStaticData seeds the default currencies in a single transaction.
// Existing currencies are left untouched.
func (s *currencyService) InitializeStaticData(ctx context.Context) (err error) {
	tx, err := s.currencyRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := s.currencyRepo.Rollback(ctx, tx); rbErr != nil {
				s.LogError(ctx, rbErr, "Failed to roll back currency seed")
			}
		}
	}()

	now := s.clock().UTC()
	seed := make([]domain.Currency, len(defaultCurrencies))
	for i, c := range defaultCurrencies {
		c.AuditFields = domain.NewAuditFields(SystemUserID, now)
		seed[i] = c
	}

	inserted, err := s.currencyRepo.SeedCurrencies(ctx, tx, seed)
	if err != nil {
		s.LogError(ctx, err, "Failed to seed currencies")
		return fmt.Errorf("failed to seed currencies: %w", err)
	}
	if err = s.currencyRepo.Commit(ctx, tx); err != nil {
		return err
	}

	s.LogInfo(ctx, "Currency reference data initialized", slog.Int("inserted", inserted))
	return nil
}
