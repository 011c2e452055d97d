package kpi

import "context"

type StoreAPI interface {
	CreateDefinition(ctx context.Context, def Definition) (string, error)
	ListDefinitions(ctx context.Context, includeArchived bool) ([]Definition, error)
	GetDefinition(ctx context.Context, definitionID string) (Definition, error)
	UpdateDefinition(ctx context.Context, definitionID string, def Definition) error
	ArchiveDefinition(ctx context.Context, definitionID string) error

	BulkInsertRecords(ctx context.Context, recs []Record) error
	GetRecord(ctx context.Context, recordID string) (Record, error)
	CountRecords(ctx context.Context, filter RecordFilter) (int, error)
	ListRecords(ctx context.Context, filter RecordFilter, limit, offset int) ([]Record, error)
	ActiveRecordExists(ctx context.Context, definitionID, employeeID, period string) (bool, error)
	UpdateRecordProgress(ctx context.Context, rec Record) error
	UpdateRecordSubmission(ctx context.Context, rec Record) error
	UpdateRecordDecision(ctx context.Context, rec Record) (int64, error)
	SoftDeleteRecord(ctx context.Context, recordID string) error
}

// EmployeeDirectory is the slice of the employee store the KPI engine needs:
// existence and department of an assignment candidate.
type EmployeeDirectory interface {
	ActiveDepartment(ctx context.Context, employeeID string) (departmentID string, active bool, err error)
}
