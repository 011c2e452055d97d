package reward

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateRecord(ctx context.Context, rec BonusPenaltyRecord) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO bonus_penalty_records (employee_id, kpi_record_id, type, amount, reason, period, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, rec.EmployeeID, nullIfEmpty(rec.KpiRecordID), rec.Type, rec.Amount, rec.Reason, rec.Period, nullIfEmpty(rec.CreatedBy)).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetRecord(ctx context.Context, recordID string) (BonusPenaltyRecord, error) {
	var rec BonusPenaltyRecord
	if err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, COALESCE(kpi_record_id::text,''), type, amount, reason, period, COALESCE(created_by::text,''), created_at, updated_at
    FROM bonus_penalty_records
    WHERE id = $1 AND NOT is_deleted
  `, recordID).Scan(&rec.ID, &rec.EmployeeID, &rec.KpiRecordID, &rec.Type, &rec.Amount, &rec.Reason, &rec.Period, &rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return BonusPenaltyRecord{}, err
	}
	return rec, nil
}

func (s *Store) CountRecords(ctx context.Context, employeeID, period string) (int, error) {
	query, args := buildFilter("SELECT COUNT(1) FROM bonus_penalty_records WHERE NOT is_deleted", employeeID, period)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListRecords(ctx context.Context, employeeID, period string, limit, offset int) ([]BonusPenaltyRecord, error) {
	query, args := buildFilter(`
    SELECT id, employee_id, COALESCE(kpi_record_id::text,''), type, amount, reason, period, COALESCE(created_by::text,''), created_at, updated_at
    FROM bonus_penalty_records
    WHERE NOT is_deleted`, employeeID, period)
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

	var recs []BonusPenaltyRecord
	for rows.Next() {
		var rec BonusPenaltyRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.KpiRecordID, &rec.Type, &rec.Amount, &rec.Reason, &rec.Period, &rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *Store) UpdateRecord(ctx context.Context, recordID string, rec BonusPenaltyRecord) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE bonus_penalty_records
    SET type = $1, amount = $2, reason = $3, period = $4, updated_at = now()
    WHERE id = $5 AND NOT is_deleted
  `, rec.Type, rec.Amount, rec.Reason, rec.Period, recordID)
	return err
}

func (s *Store) SoftDeleteRecord(ctx context.Context, recordID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE bonus_penalty_records SET is_deleted = true, updated_at = now() WHERE id = $1
  `, recordID)
	return err
}

type StatementData struct {
	FirstName string
	LastName  string
	Email     string
	RoleCode  string
	Records   []BonusPenaltyRecord
}

func (s *Store) StatementData(ctx context.Context, employeeID, period string) (StatementData, error) {
	var data StatementData
	if err := s.DB.QueryRow(ctx, `
    SELECT first_name, last_name, email, role_code
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&data.FirstName, &data.LastName, &data.Email, &data.RoleCode); err != nil {
		return StatementData{}, err
	}

	records, err := s.ListRecords(ctx, employeeID, period, 0, 0)
	if err != nil {
		return StatementData{}, err
	}
	data.Records = records
	return data, nil
}

func buildFilter(base, employeeID, period string) (string, []any) {
	query := base
	var args []any
	if employeeID != "" {
		args = append(args, employeeID)
		query += positional(" AND employee_id =", len(args))
	}
	if period != "" {
		args = append(args, period)
		query += positional(" AND period =", len(args))
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
