package kpi

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	Store     StoreAPI
	Employees EmployeeDirectory
}

func NewService(store StoreAPI, employees EmployeeDirectory) *Service {
	return &Service{Store: store, Employees: employees}
}

func (s *Service) CreateDefinition(ctx context.Context, def Definition) (Definition, error) {
	if err := validateDefinition(&def); err != nil {
		return Definition{}, err
	}
	id, err := s.Store.CreateDefinition(ctx, def)
	if err != nil {
		return Definition{}, err
	}
	return s.Store.GetDefinition(ctx, id)
}

func (s *Service) ListDefinitions(ctx context.Context, includeArchived bool) ([]Definition, error) {
	return s.Store.ListDefinitions(ctx, includeArchived)
}

func (s *Service) GetDefinition(ctx context.Context, definitionID string) (Definition, error) {
	def, err := s.Store.GetDefinition(ctx, definitionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Definition{}, ErrDefinitionNotFound
	}
	return def, err
}

func (s *Service) UpdateDefinition(ctx context.Context, definitionID string, def Definition) (Definition, error) {
	if _, err := s.GetDefinition(ctx, definitionID); err != nil {
		return Definition{}, err
	}
	if err := validateDefinition(&def); err != nil {
		return Definition{}, err
	}
	if err := s.Store.UpdateDefinition(ctx, definitionID, def); err != nil {
		return Definition{}, err
	}
	return s.Store.GetDefinition(ctx, definitionID)
}

// ArchiveDefinition soft-deactivates a definition. Definitions are never
// hard-deleted; existing records keep their copied targets.
func (s *Service) ArchiveDefinition(ctx context.Context, definitionID string) error {
	if _, err := s.GetDefinition(ctx, definitionID); err != nil {
		return err
	}
	return s.Store.ArchiveDefinition(ctx, definitionID)
}

func (s *Service) GetRecord(ctx context.Context, recordID string) (Record, error) {
	rec, err := s.Store.GetRecord(ctx, recordID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, err
	}
	rec.Overdue = rec.IsOverdue(time.Now().UTC())
	return rec, nil
}

func (s *Service) ListRecords(ctx context.Context, filter RecordFilter, limit, offset int) ([]Record, int, error) {
	total, err := s.Store.CountRecords(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	recs, err := s.Store.ListRecords(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now().UTC()
	for i := range recs {
		recs[i].Overdue = recs[i].IsOverdue(now)
	}
	return recs, total, nil
}

// RecordProgress applies a new actual value to a record and persists it.
func (s *Service) RecordProgress(ctx context.Context, recordID string, actual float64) (Record, error) {
	rec, err := s.GetRecord(ctx, recordID)
	if err != nil {
		return Record{}, err
	}
	if err := RecordProgress(&rec, actual); err != nil {
		return Record{}, err
	}
	if err := s.Store.UpdateRecordProgress(ctx, rec); err != nil {
		return Record{}, err
	}
	rec.Overdue = rec.IsOverdue(time.Now().UTC())
	return rec, nil
}

// Submit records the final actual with details and moves the record to
// pending_approval.
func (s *Service) Submit(ctx context.Context, recordID string, actual float64, details, attachmentRef string) (Record, error) {
	rec, err := s.GetRecord(ctx, recordID)
	if err != nil {
		return Record{}, err
	}
	if err := Submit(&rec, actual, details, attachmentRef, time.Now().UTC()); err != nil {
		return Record{}, err
	}
	if err := s.Store.UpdateRecordSubmission(ctx, rec); err != nil {
		return Record{}, err
	}
	rec.Overdue = rec.IsOverdue(time.Now().UTC())
	return rec, nil
}

// Decide approves or rejects a pending record.
func (s *Service) Decide(ctx context.Context, recordID, decision, approverID, feedback string) (Record, error) {
	rec, err := s.GetRecord(ctx, recordID)
	if err != nil {
		return Record{}, err
	}
	if err := Decide(&rec, decision, approverID, feedback, time.Now().UTC()); err != nil {
		return Record{}, err
	}
	rows, err := s.Store.UpdateRecordDecision(ctx, rec)
	if err != nil {
		return Record{}, err
	}
	if rows == 0 {
		current, err := s.GetRecord(ctx, recordID)
		if err != nil {
			return Record{}, err
		}
		return Record{}, &InvalidTransitionError{Status: current.Status, Action: "decide on"}
	}
	rec.Overdue = rec.IsOverdue(time.Now().UTC())
	return rec, nil
}

func (s *Service) DeleteRecord(ctx context.Context, recordID string) error {
	if _, err := s.GetRecord(ctx, recordID); err != nil {
		return err
	}
	return s.Store.SoftDeleteRecord(ctx, recordID)
}

func validateDefinition(def *Definition) error {
	def.Name = strings.TrimSpace(def.Name)
	if def.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if def.Target <= 0 {
		return &ValidationError{Field: "target", Reason: "must be greater than zero"}
	}
	valid := false
	for _, freq := range Frequencies {
		if def.Frequency == freq {
			valid = true
			break
		}
	}
	if !valid {
		return &ValidationError{Field: "frequency", Reason: "must be one of daily, weekly, monthly, quarterly, yearly"}
	}
	switch def.Status {
	case "":
		def.Status = DefinitionStatusActive
	case DefinitionStatusActive, DefinitionStatusPaused, DefinitionStatusArchived:
	default:
		return &ValidationError{Field: "status", Reason: "must be active, paused or archived"}
	}
	return nil
}
