package kpi

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

type fakeStore struct {
	definitions map[string]Definition
	existing    map[string]bool // definitionID|employeeID|period
	records     map[string]Record
	inserted    []Record
	bulkErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		definitions: map[string]Definition{},
		existing:    map[string]bool{},
		records:     map[string]Record{},
	}
}

func dupKey(definitionID, employeeID, period string) string {
	return definitionID + "|" + employeeID + "|" + period
}

func (f *fakeStore) CreateDefinition(ctx context.Context, def Definition) (string, error) {
	return def.ID, nil
}

func (f *fakeStore) ListDefinitions(ctx context.Context, includeArchived bool) ([]Definition, error) {
	return nil, nil
}

func (f *fakeStore) GetDefinition(ctx context.Context, definitionID string) (Definition, error) {
	def, ok := f.definitions[definitionID]
	if !ok {
		return Definition{}, pgx.ErrNoRows
	}
	return def, nil
}

func (f *fakeStore) UpdateDefinition(ctx context.Context, definitionID string, def Definition) error {
	return nil
}

func (f *fakeStore) ArchiveDefinition(ctx context.Context, definitionID string) error { return nil }

func (f *fakeStore) BulkInsertRecords(ctx context.Context, recs []Record) error {
	if f.bulkErr != nil {
		return f.bulkErr
	}
	f.inserted = append(f.inserted, recs...)
	return nil
}

func (f *fakeStore) GetRecord(ctx context.Context, recordID string) (Record, error) {
	rec, ok := f.records[recordID]
	if !ok {
		return Record{}, pgx.ErrNoRows
	}
	return rec, nil
}

func (f *fakeStore) CountRecords(ctx context.Context, filter RecordFilter) (int, error) {
	return len(f.records), nil
}

func (f *fakeStore) ListRecords(ctx context.Context, filter RecordFilter, limit, offset int) ([]Record, error) {
	ids := make([]string, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.records[id])
	}
	return out, nil
}

func (f *fakeStore) ActiveRecordExists(ctx context.Context, definitionID, employeeID, period string) (bool, error) {
	return f.existing[dupKey(definitionID, employeeID, period)], nil
}

func (f *fakeStore) UpdateRecordProgress(ctx context.Context, rec Record) error   { return nil }
func (f *fakeStore) UpdateRecordSubmission(ctx context.Context, rec Record) error { return nil }

func (f *fakeStore) UpdateRecordDecision(ctx context.Context, rec Record) (int64, error) {
	return 1, nil
}

func (f *fakeStore) SoftDeleteRecord(ctx context.Context, recordID string) error { return nil }

type fakeDirectory struct {
	departments map[string]string
	inactive    map[string]bool
}

func (f *fakeDirectory) ActiveDepartment(ctx context.Context, employeeID string) (string, bool, error) {
	dept, ok := f.departments[employeeID]
	if !ok {
		return "", false, pgx.ErrNoRows
	}
	return dept, !f.inactive[employeeID], nil
}

func batchFixture() (*Service, *fakeStore, *fakeDirectory) {
	store := newFakeStore()
	store.definitions["def-1"] = Definition{ID: "def-1", Name: "Uptime", Target: 99.5, Status: DefinitionStatusActive}
	directory := &fakeDirectory{
		departments: map[string]string{
			"emp-1": "dept-1",
			"emp-2": "dept-1",
			"emp-3": "dept-2",
			"emp-4": "dept-2",
			"emp-5": "dept-2",
		},
		inactive: map[string]bool{},
	}
	return NewService(store, directory), store, directory
}

func baseRequest() BatchRequest {
	return BatchRequest{
		DefinitionID: "def-1",
		EmployeeIDs:  []string{"emp-1", "emp-2", "emp-3", "emp-4", "emp-5"},
		Period:       "Q1-2026",
		Target:       100,
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestBatchAssignSkipsDuplicateAndCommitsRest(t *testing.T) {
	svc, store, _ := batchFixture()
	store.existing[dupKey("def-1", "emp-3", "Q1-2026")] = true

	result, err := svc.BatchAssign(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 4 || result.FailureCount != 1 {
		t.Fatalf("expected 4 successes and 1 failure, got %+v", result)
	}
	if len(result.Errors) != 1 || result.Errors[0].EmployeeID != "emp-3" {
		t.Fatalf("expected emp-3 in errors, got %+v", result.Errors)
	}
	if len(store.inserted) != 4 {
		t.Fatalf("expected 4 persisted records, got %d", len(store.inserted))
	}
	for _, rec := range store.inserted {
		if rec.EmployeeID == "emp-3" {
			t.Fatal("duplicate employee must not be persisted")
		}
		if rec.Status != StatusNotStarted || rec.Target != 100 || rec.Period != "Q1-2026" {
			t.Fatalf("unexpected record %+v", rec)
		}
		if rec.ID == "" {
			t.Fatal("records must carry generated ids")
		}
	}
}

func TestBatchAssignValidatesAllBeforeCommitting(t *testing.T) {
	svc, store, directory := batchFixture()
	delete(directory.departments, "emp-2")
	directory.inactive["emp-4"] = true

	result, err := svc.BatchAssign(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 3 || result.FailureCount != 2 {
		t.Fatalf("expected 3/2, got %+v", result)
	}
	// validation never fails fast: both bad candidates are itemized
	seen := map[string]string{}
	for _, e := range result.Errors {
		seen[e.EmployeeID] = e.Reason
	}
	if seen["emp-2"] == "" || seen["emp-4"] == "" {
		t.Fatalf("expected itemized errors for emp-2 and emp-4, got %+v", result.Errors)
	}
	if len(store.inserted) != 3 {
		t.Fatalf("expected 3 persisted records, got %d", len(store.inserted))
	}
}

func TestBatchAssignEmptyCommitSetSkipsWrite(t *testing.T) {
	svc, store, _ := batchFixture()
	req := baseRequest()
	for _, id := range req.EmployeeIDs {
		store.existing[dupKey("def-1", id, req.Period)] = true
	}

	result, err := svc.BatchAssign(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 0 || result.FailureCount != 5 {
		t.Fatalf("expected 0/5, got %+v", result)
	}
	if len(store.inserted) != 0 {
		t.Fatal("no records may be written when the commit set is empty")
	}
}

func TestBatchAssignBulkFailureMarksWholeCommitSet(t *testing.T) {
	svc, store, _ := batchFixture()
	store.existing[dupKey("def-1", "emp-1", "Q1-2026")] = true
	store.bulkErr = errors.New("constraint violation")

	result, err := svc.BatchAssign(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 0 || result.FailureCount != 5 {
		t.Fatalf("expected every candidate failed, got %+v", result)
	}
	bulkFailures := 0
	for _, e := range result.Errors {
		if e.Reason == "constraint violation" {
			bulkFailures++
		}
	}
	if bulkFailures != 4 {
		t.Fatalf("expected 4 bulk failures, got %d", bulkFailures)
	}
}

func TestBatchAssignUnknownDefinition(t *testing.T) {
	svc, _, _ := batchFixture()
	req := baseRequest()
	req.DefinitionID = "missing"
	if _, err := svc.BatchAssign(context.Background(), req); !errors.Is(err, ErrDefinitionNotFound) {
		t.Fatalf("expected ErrDefinitionNotFound, got %v", err)
	}
}

func TestBatchAssignInvalidPeriod(t *testing.T) {
	svc, _, _ := batchFixture()
	req := baseRequest()
	req.Period = "2026-Q1"
	if _, err := svc.BatchAssign(context.Background(), req); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBatchAssignDefaultsPeriodAndDates(t *testing.T) {
	svc, store, _ := batchFixture()
	req := baseRequest()
	req.Period = ""
	req.StartDate = time.Time{}
	req.EndDate = time.Time{}

	result, err := svc.BatchAssign(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 5 {
		t.Fatalf("expected 5 successes, got %+v", result)
	}
	wantPeriod := CurrentPeriod(time.Now().UTC())
	wantStart, wantEnd, ok := PeriodBounds(wantPeriod)
	if !ok {
		t.Fatalf("current period %q must have bounds", wantPeriod)
	}
	for _, rec := range store.inserted {
		if rec.Period != wantPeriod {
			t.Fatalf("expected current quarter %q, got %q", wantPeriod, rec.Period)
		}
		if !rec.StartDate.Equal(wantStart) || !rec.EndDate.Equal(wantEnd) {
			t.Fatalf("expected period bounds %v..%v, got %v..%v", wantStart, wantEnd, rec.StartDate, rec.EndDate)
		}
	}
}

func TestBatchAssignDefaultsMonthlyPeriod(t *testing.T) {
	svc, store, _ := batchFixture()
	store.definitions["def-1"] = Definition{ID: "def-1", Name: "Uptime", Target: 99.5, Status: DefinitionStatusActive, Frequency: FrequencyMonthly}
	req := baseRequest()
	req.Period = ""
	req.StartDate = time.Time{}
	req.EndDate = time.Time{}

	result, err := svc.BatchAssign(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 5 {
		t.Fatalf("expected 5 successes, got %+v", result)
	}
	wantPeriod := CurrentMonthlyPeriod(time.Now().UTC())
	for _, rec := range store.inserted {
		if rec.Period != wantPeriod {
			t.Fatalf("expected current month %q, got %q", wantPeriod, rec.Period)
		}
	}
}

func TestBatchAssignTargetFallsBackToDefinition(t *testing.T) {
	svc, store, _ := batchFixture()
	req := baseRequest()
	req.Target = 0
	result, err := svc.BatchAssign(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 5 {
		t.Fatalf("expected 5 successes, got %+v", result)
	}
	for _, rec := range store.inserted {
		if rec.Target != 99.5 {
			t.Fatalf("expected definition target copied, got %v", rec.Target)
		}
	}
}
