package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

func (r *Repository) InsertShiftSubmission(submission *domain.ShiftSubmission) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO shift_submissions (business_id, employee_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	submission.Status = domain.SubmissionStatusPending
	args := []any{submission.BusinessID, submission.EmployeeID, submission.Status}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&submission.ID, &submission.CreatedAt, &submission.Version); err != nil {
		return err
	}

	query = `
		INSERT INTO shift_submission_entries (submission_id, date, start_time, end_time, branch_name, role_preference, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, entry := range submission.Entries {
		args := []any{submission.ID, entry.Date, entry.StartTime, entry.EndTime, entry.BranchName, entry.RolePreference, entry.Notes}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetShiftSubmissionByID(id int64) (*domain.ShiftSubmission, error) {
	submissions, err := r.querySubmissions(`WHERE sub.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(submissions) == 0 {
		return nil, sql.ErrNoRows
	}

	return submissions[0], nil
}

func (r *Repository) GetSubmissionsByBusinessID(businessID int64) ([]*domain.ShiftSubmission, error) {
	return r.querySubmissions(`WHERE sub.business_id = $1`, businessID)
}

func (r *Repository) querySubmissions(where string, arg any) ([]*domain.ShiftSubmission, error) {
	query := `
		SELECT
			sub.id,
			sub.business_id,
			sub.employee_id,
			sub.status,
			sub.reviewer_id,
			sub.reviewed_at,
			sub.review_notes,
			sub.created_at,
			sub.version,
			e.date,
			e.start_time,
			e.end_time,
			e.branch_name,
			e.role_preference,
			e.notes
		FROM shift_submissions sub
		LEFT JOIN shift_submission_entries e ON sub.id = e.submission_id
		` + where + `
		ORDER BY sub.created_at, sub.id, e.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissionsMap := make(map[int64]*domain.ShiftSubmission)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			submission domain.ShiftSubmission

			date           sql.NullString
			startTime      sql.NullString
			endTime        sql.NullString
			branchName     sql.NullString
			rolePreference sql.NullString
			notes          sql.NullString
		}

		dst := []any{
			&row.submission.ID,
			&row.submission.BusinessID,
			&row.submission.EmployeeID,
			&row.submission.Status,
			&row.submission.ReviewerID,
			&row.submission.ReviewedAt,
			&row.submission.ReviewNotes,
			&row.submission.CreatedAt,
			&row.submission.Version,
			&row.date,
			&row.startTime,
			&row.endTime,
			&row.branchName,
			&row.rolePreference,
			&row.notes,
		}

		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		submission, exists := submissionsMap[row.submission.ID]
		if !exists {
			submission = &row.submission
			submission.Entries = make([]domain.ShiftSubmissionEntry, 0)
			submissionsMap[submission.ID] = submission
			order = append(order, submission.ID)
		}

		if !row.date.Valid {
			// 没有任何条目的提交，业务上不应出现，但这里还是兜底处理
			continue
		}

		submission.Entries = append(submission.Entries, domain.ShiftSubmissionEntry{
			Date:           row.date.String,
			StartTime:      row.startTime.String,
			EndTime:        row.endTime.String,
			BranchName:     row.branchName.String,
			RolePreference: row.rolePreference.String,
			Notes:          row.notes.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	submissions := make([]*domain.ShiftSubmission, 0, len(order))
	for _, id := range order {
		submissions = append(submissions, submissionsMap[id])
	}

	return submissions, nil
}

// ReviewShiftSubmission 只更新审核字段，提交内容一经创建不再修改
func (r *Repository) ReviewShiftSubmission(submission *domain.ShiftSubmission) error {
	query := `
		UPDATE shift_submissions
		SET
			status = $1,
			reviewer_id = $2,
			reviewed_at = $3,
			review_notes = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{submission.Status, submission.ReviewerID, submission.ReviewedAt, submission.ReviewNotes, submission.ID, submission.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&submission.Version); err != nil {
		return err
	}

	return nil
}
