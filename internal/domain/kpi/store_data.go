package kpi

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateDefinition(ctx context.Context, def Definition) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO kpi_definitions (name, description, department_id, target, unit, frequency, status, reward_config, penalty_config, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id
  `, def.Name, def.Description, nullIfEmpty(def.DepartmentID), def.Target, def.Unit, def.Frequency, def.Status, def.RewardConfig, def.PenaltyConfig, nullIfEmpty(def.CreatedBy)).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListDefinitions(ctx context.Context, includeArchived bool) ([]Definition, error) {
	query := `
    SELECT id, name, description, COALESCE(department_id::text,''), target, unit, frequency, status, reward_config, penalty_config, COALESCE(created_by::text,''), created_at, updated_at
    FROM kpi_definitions
  `
	if !includeArchived {
		query += " WHERE status <> '" + DefinitionStatusArchived + "'"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []Definition
	for rows.Next() {
		var def Definition
		if err := rows.Scan(&def.ID, &def.Name, &def.Description, &def.DepartmentID, &def.Target, &def.Unit, &def.Frequency, &def.Status, &def.RewardConfig, &def.PenaltyConfig, &def.CreatedBy, &def.CreatedAt, &def.UpdatedAt); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (s *Store) GetDefinition(ctx context.Context, definitionID string) (Definition, error) {
	var def Definition
	if err := s.DB.QueryRow(ctx, `
    SELECT id, name, description, COALESCE(department_id::text,''), target, unit, frequency, status, reward_config, penalty_config, COALESCE(created_by::text,''), created_at, updated_at
    FROM kpi_definitions
    WHERE id = $1
  `, definitionID).Scan(&def.ID, &def.Name, &def.Description, &def.DepartmentID, &def.Target, &def.Unit, &def.Frequency, &def.Status, &def.RewardConfig, &def.PenaltyConfig, &def.CreatedBy, &def.CreatedAt, &def.UpdatedAt); err != nil {
		return Definition{}, err
	}
	return def, nil
}

func (s *Store) UpdateDefinition(ctx context.Context, definitionID string, def Definition) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE kpi_definitions
    SET name = $1, description = $2, department_id = $3, target = $4, unit = $5, frequency = $6, status = $7, reward_config = $8, penalty_config = $9, updated_at = now()
    WHERE id = $10
  `, def.Name, def.Description, nullIfEmpty(def.DepartmentID), def.Target, def.Unit, def.Frequency, def.Status, def.RewardConfig, def.PenaltyConfig, definitionID)
	return err
}

func (s *Store) ArchiveDefinition(ctx context.Context, definitionID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE kpi_definitions SET status = $1, updated_at = now() WHERE id = $2
  `, DefinitionStatusArchived, definitionID)
	return err
}

// BulkInsertRecords writes the whole commit set in one COPY. A failure here
// fails the entire set; the coordinator reports it per employee.
func (s *Store) BulkInsertRecords(ctx context.Context, recs []Record) error {
	_, err := s.DB.CopyFrom(ctx,
		pgx.Identifier{"kpi_records"},
		[]string{"id", "kpi_definition_id", "employee_id", "department_id", "period", "target", "actual", "progress", "status", "start_date", "end_date"},
		pgx.CopyFromSlice(len(recs), func(i int) ([]any, error) {
			rec := recs[i]
			return []any{rec.ID, rec.DefinitionID, rec.EmployeeID, nullIfEmpty(rec.DepartmentID), rec.Period, rec.Target, rec.Actual, rec.Progress, rec.Status, rec.StartDate, rec.EndDate}, nil
		}),
	)
	return err
}

const recordColumns = `
    id, kpi_definition_id, employee_id, COALESCE(department_id::text,''), period, target, actual, progress, status,
    start_date, end_date, submitted_at, COALESCE(submission_details,''), COALESCE(attachment_ref,''),
    decided_at, COALESCE(approver_id::text,''), COALESCE(feedback,''), bonus_penalty, score, created_at, updated_at`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.DefinitionID, &rec.EmployeeID, &rec.DepartmentID, &rec.Period, &rec.Target, &rec.Actual, &rec.Progress, &rec.Status,
		&rec.StartDate, &rec.EndDate, &rec.SubmittedAt, &rec.SubmissionDetails, &rec.AttachmentRef,
		&rec.DecidedAt, &rec.ApproverID, &rec.Feedback, &rec.BonusPenalty, &rec.Score, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

func (s *Store) GetRecord(ctx context.Context, recordID string) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, `
    SELECT`+recordColumns+`
    FROM kpi_records
    WHERE id = $1 AND NOT is_deleted
  `, recordID))
}

func (s *Store) CountRecords(ctx context.Context, filter RecordFilter) (int, error) {
	query, args := buildRecordFilter("SELECT COUNT(1) FROM kpi_records WHERE NOT is_deleted", filter)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListRecords(ctx context.Context, filter RecordFilter, limit, offset int) ([]Record, error) {
	query, args := buildRecordFilter("SELECT"+recordColumns+" FROM kpi_records WHERE NOT is_deleted", filter)
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit, offset)
		query += positional(" LIMIT", len(args)-1) + positional(" OFFSET", len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// ActiveRecordExists is the application-level duplicate check behind the
// one-active-record-per-(definition, employee, period) invariant.
func (s *Store) ActiveRecordExists(ctx context.Context, definitionID, employeeID, period string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM kpi_records
    WHERE kpi_definition_id = $1 AND employee_id = $2 AND period = $3 AND NOT is_deleted
  `, definitionID, employeeID, period).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) UpdateRecordProgress(ctx context.Context, rec Record) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE kpi_records
    SET actual = $1, progress = $2, status = $3, updated_at = now()
    WHERE id = $4 AND NOT is_deleted
  `, rec.Actual, rec.Progress, rec.Status, rec.ID)
	return err
}

func (s *Store) UpdateRecordSubmission(ctx context.Context, rec Record) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE kpi_records
    SET actual = $1, progress = $2, status = $3, submitted_at = $4, submission_details = $5, attachment_ref = $6, updated_at = now()
    WHERE id = $7 AND NOT is_deleted
  `, rec.Actual, rec.Progress, rec.Status, rec.SubmittedAt, rec.SubmissionDetails, nullIfEmpty(rec.AttachmentRef), rec.ID)
	return err
}

// UpdateRecordDecision re-checks pending_approval inside the UPDATE so a
// concurrent double-decide loses the race with zero rows affected instead of
// overwriting the first decision.
func (s *Store) UpdateRecordDecision(ctx context.Context, rec Record) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE kpi_records
    SET status = $1, decided_at = $2, approver_id = $3, feedback = $4, updated_at = now()
    WHERE id = $5 AND status = $6 AND NOT is_deleted
  `, rec.Status, rec.DecidedAt, rec.ApproverID, rec.Feedback, rec.ID, StatusPendingApproval)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) SoftDeleteRecord(ctx context.Context, recordID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE kpi_records SET is_deleted = true, updated_at = now() WHERE id = $1
  `, recordID)
	return err
}

func buildRecordFilter(base string, filter RecordFilter) (string, []any) {
	query := base
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += positional(" AND employee_id =", len(args))
	}
	if filter.DefinitionID != "" {
		args = append(args, filter.DefinitionID)
		query += positional(" AND kpi_definition_id =", len(args))
	}
	if filter.Period != "" {
		args = append(args, filter.Period)
		query += positional(" AND period =", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += positional(" AND status =", len(args))
	}
	return query, args
}

func positional(prefix string, n int) string {
	return fmt.Sprintf("%s $%d", prefix, n)
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
