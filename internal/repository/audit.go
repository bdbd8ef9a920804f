package repository

import (
	"context"
	"time"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

func (r *Repository) InsertAuditEvent(event *domain.AuditEvent) error {
	query := `
		INSERT INTO audit_events (business_id, actor_id, kind, employee_id, branch_id, date, override_used, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{event.BusinessID, event.ActorID, event.Kind, event.EmployeeID, event.BranchID, event.Date, event.OverrideUsed, event.Details}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&event.ID, &event.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAuditEventsByBusinessID(businessID int64) ([]*domain.AuditEvent, error) {
	query := `
		SELECT id, actor_id, kind, employee_id, branch_id, date, override_used, details, created_at
		FROM audit_events
		WHERE business_id = $1
		ORDER BY created_at DESC, id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.AuditEvent, 0)
	for rows.Next() {
		event := &domain.AuditEvent{
			BusinessID: businessID,
		}
		dst := []any{&event.ID, &event.ActorID, &event.Kind, &event.EmployeeID, &event.BranchID, &event.Date, &event.OverrideUsed, &event.Details, &event.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
