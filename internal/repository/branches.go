package repository

import (
	"context"
	"time"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

func (r *Repository) GetBranchByID(id int64) (*domain.Branch, error) {
	query := `
		SELECT business_id, name, is_active, is_archived, created_at, version
		FROM branches WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	branch := &domain.Branch{
		ID: id,
	}

	dst := []any{&branch.BusinessID, &branch.Name, &branch.IsActive, &branch.IsArchived, &branch.CreatedAt, &branch.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return branch, nil
}

// GetBranchesByBusinessID 默认不返回已归档的门店
func (r *Repository) GetBranchesByBusinessID(businessID int64) ([]*domain.Branch, error) {
	query := `
		SELECT id, name, is_active, is_archived, created_at, version
		FROM branches
		WHERE business_id = $1 AND is_archived = FALSE
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := make([]*domain.Branch, 0)
	for rows.Next() {
		branch := &domain.Branch{
			BusinessID: businessID,
		}
		dst := []any{&branch.ID, &branch.Name, &branch.IsActive, &branch.IsArchived, &branch.CreatedAt, &branch.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return branches, nil
}

func (r *Repository) CreateBranch(branch *domain.Branch) error {
	query := `
		INSERT INTO branches (business_id, name)
		VALUES ($1, $2)
		RETURNING id, is_active, is_archived, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	dst := []any{&branch.ID, &branch.IsActive, &branch.IsArchived, &branch.CreatedAt, &branch.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, branch.BusinessID, branch.Name).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateBranch(branch *domain.Branch) error {
	query := `
		UPDATE branches
		SET
			name = $1,
			is_active = $2,
			is_archived = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{branch.Name, branch.IsActive, branch.IsArchived, branch.ID, branch.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&branch.Version); err != nil {
		return err
	}

	return nil
}
