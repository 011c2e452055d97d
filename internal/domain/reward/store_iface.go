package reward

import "context"

type StoreAPI interface {
	CreateRecord(ctx context.Context, rec BonusPenaltyRecord) (string, error)
	GetRecord(ctx context.Context, recordID string) (BonusPenaltyRecord, error)
	CountRecords(ctx context.Context, employeeID, period string) (int, error)
	ListRecords(ctx context.Context, employeeID, period string, limit, offset int) ([]BonusPenaltyRecord, error)
	UpdateRecord(ctx context.Context, recordID string, rec BonusPenaltyRecord) error
	SoftDeleteRecord(ctx context.Context, recordID string) error
	StatementData(ctx context.Context, employeeID, period string) (StatementData, error)
}
