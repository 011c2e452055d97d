package kpi

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func readFixture() (*Service, *fakeStore) {
	store := newFakeStore()
	store.records["rec-open"] = Record{
		ID:         "rec-open",
		EmployeeID: "emp-1",
		Period:     "Q1-2020",
		Status:     StatusInProgress,
		StartDate:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	store.records["rec-settled"] = Record{
		ID:         "rec-settled",
		EmployeeID: "emp-2",
		Period:     "Q1-2020",
		Status:     StatusApproved,
		StartDate:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	return NewService(store, &fakeDirectory{}), store
}

func TestGetRecordReportsOverdue(t *testing.T) {
	svc, _ := readFixture()

	rec, err := svc.GetRecord(context.Background(), "rec-open")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.Overdue {
		t.Fatal("open record past its end date must read as overdue")
	}

	rec, err = svc.GetRecord(context.Background(), "rec-settled")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Overdue {
		t.Fatal("approved record must never read as overdue")
	}
}

func TestListRecordsReportsOverdue(t *testing.T) {
	svc, _ := readFixture()

	recs, total, err := svc.ListRecords(context.Background(), RecordFilter{}, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(recs) != 2 {
		t.Fatalf("expected 2 records, got total=%d len=%d", total, len(recs))
	}
	byID := map[string]Record{}
	for _, rec := range recs {
		byID[rec.ID] = rec
	}
	if !byID["rec-open"].Overdue {
		t.Fatal("listing must flag the open past-end record as overdue")
	}
	if byID["rec-settled"].Overdue {
		t.Fatal("listing must not flag the approved record as overdue")
	}
}

func TestRepeatedReadsWithoutMutationIdentical(t *testing.T) {
	svc, _ := readFixture()

	first, err := svc.GetRecord(context.Background(), "rec-open")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetRecord(context.Background(), "rec-open")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated reads diverged:\n%+v\n%+v", first, second)
	}

	listA, totalA, err := svc.ListRecords(context.Background(), RecordFilter{}, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	listB, totalB, err := svc.ListRecords(context.Background(), RecordFilter{}, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totalA != totalB || !reflect.DeepEqual(listA, listB) {
		t.Fatalf("repeated listings diverged:\n%+v\n%+v", listA, listB)
	}
}
