package reward

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"kpitrack/internal/domain/kpi"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Compute runs the pure rule engine. Persisting the outcome is a separate,
// explicit step (SaveResult) left to the caller.
func (s *Service) Compute(role, period string, bundle Bundle, supplementalSalary float64) CalculationResult {
	return Calculate(role, period, bundle, supplementalSalary)
}

// SaveResult persists a calculation's net figure as a single bonus or
// penalty record for the employee.
func (s *Service) SaveResult(ctx context.Context, employeeID string, result CalculationResult, createdBy string) (BonusPenaltyRecord, error) {
	rec := BonusPenaltyRecord{
		EmployeeID: employeeID,
		Type:       TypeBonus,
		Amount:     result.Net,
		Reason:     fmt.Sprintf("KPI reward calculation for %s (%s)", result.Period, result.Role),
		Period:     result.Period,
		CreatedBy:  createdBy,
	}
	if result.Net < 0 {
		rec.Type = TypePenalty
		rec.Amount = -result.Net
	}
	if rec.Amount == 0 {
		return BonusPenaltyRecord{}, ErrInvalidAmount
	}
	return s.Create(ctx, rec)
}

func (s *Service) Create(ctx context.Context, rec BonusPenaltyRecord) (BonusPenaltyRecord, error) {
	if err := validateRecord(&rec); err != nil {
		return BonusPenaltyRecord{}, err
	}
	id, err := s.Store.CreateRecord(ctx, rec)
	if err != nil {
		return BonusPenaltyRecord{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, recordID string) (BonusPenaltyRecord, error) {
	rec, err := s.Store.GetRecord(ctx, recordID)
	if errors.Is(err, pgx.ErrNoRows) {
		return BonusPenaltyRecord{}, ErrRecordNotFound
	}
	return rec, err
}

func (s *Service) List(ctx context.Context, employeeID, period string, limit, offset int) ([]BonusPenaltyRecord, int, error) {
	total, err := s.Store.CountRecords(ctx, employeeID, period)
	if err != nil {
		return nil, 0, err
	}
	recs, err := s.Store.ListRecords(ctx, employeeID, period, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func (s *Service) Update(ctx context.Context, recordID string, rec BonusPenaltyRecord) (BonusPenaltyRecord, error) {
	current, err := s.Get(ctx, recordID)
	if err != nil {
		return BonusPenaltyRecord{}, err
	}
	rec.EmployeeID = current.EmployeeID
	if err := validateRecord(&rec); err != nil {
		return BonusPenaltyRecord{}, err
	}
	if err := s.Store.UpdateRecord(ctx, recordID, rec); err != nil {
		return BonusPenaltyRecord{}, err
	}
	return s.Get(ctx, recordID)
}

func (s *Service) Delete(ctx context.Context, recordID string) error {
	if _, err := s.Get(ctx, recordID); err != nil {
		return err
	}
	return s.Store.SoftDeleteRecord(ctx, recordID)
}

func validateRecord(rec *BonusPenaltyRecord) error {
	if rec.Type != TypeBonus && rec.Type != TypePenalty {
		return ErrInvalidType
	}
	if rec.Amount <= 0 {
		return ErrInvalidAmount
	}
	rec.Reason = strings.TrimSpace(rec.Reason)
	if rec.Reason == "" {
		return ErrEmptyReason
	}
	if !kpi.ValidPeriod(rec.Period) {
		return ErrInvalidPeriod
	}
	return nil
}
