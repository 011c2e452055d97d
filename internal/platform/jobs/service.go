package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"kpitrack/internal/domain/notifications"
	"kpitrack/internal/platform/config"
)

const (
	JobOverdueScan = "kpi_overdue_scan"
)

type Service struct {
	DB            *pgxpool.Pool
	Cfg           config.Config
	Notifications *notifications.Service
	queue         chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, notify *notifications.Service) *Service {
	return &Service{
		DB:            db,
		Cfg:           cfg,
		Notifications: notify,
		queue:         make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.OverdueScanInterval > 0 {
		go s.scheduleOverdueScan(ctx, s.Cfg.OverdueScanInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// RunOverdueScan triggers the overdue scan synchronously, outside the
// ticker schedule. Used by the admin trigger endpoint.
func (s *Service) RunOverdueScan(ctx context.Context) (any, error) {
	return s.RunNow(ctx, JobOverdueScan, func(ctx context.Context) (any, error) {
		return s.remindOverdue(ctx, time.Now())
	})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleOverdueScan(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobOverdueScan, func(ctx context.Context) (any, error) {
				return s.remindOverdue(ctx, time.Now())
			})
		}
	}
}

type overdueRecord struct {
	RecordID string
	UserID   string
	Name     string
	Period   string
}

// remindOverdue notifies the owner of every open record whose end date has
// passed. Overdue is never stored on the record itself.
func (s *Service) remindOverdue(ctx context.Context, now time.Time) (any, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, e.user_id, d.name, r.period
    FROM kpi_records r
    JOIN kpi_definitions d ON r.kpi_definition_id = d.id
    JOIN employees e ON r.employee_id = e.id
    WHERE r.status IN ('not_started','in_progress')
      AND r.end_date < $1
      AND NOT r.is_deleted
      AND e.user_id IS NOT NULL
  `, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overdue []overdueRecord
	for rows.Next() {
		var rec overdueRecord
		if err := rows.Scan(&rec.RecordID, &rec.UserID, &rec.Name, &rec.Period); err != nil {
			return nil, err
		}
		overdue = append(overdue, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	notified := 0
	for _, rec := range overdue {
		title := "KPI overdue"
		body := fmt.Sprintf("Your KPI %q for %s has passed its end date without submission.", rec.Name, rec.Period)
		if err := s.Notifications.Create(ctx, rec.UserID, notifications.TypeKpiOverdue, title, body); err != nil {
			slog.Warn("overdue reminder failed", "recordId", rec.RecordID, "err", err)
			continue
		}
		notified++
	}
	return map[string]any{"overdue": len(overdue), "notified": notified}, nil
}
