package repository

import (
	"context"
	"time"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

func (r *Repository) GetBusinessByID(id int64) (*domain.Business, error) {
	query := `
		SELECT name, is_active, is_archived, created_at, version
		FROM businesses WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	business := &domain.Business{
		ID: id,
	}

	dst := []any{&business.Name, &business.IsActive, &business.IsArchived, &business.CreatedAt, &business.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return business, nil
}

func (r *Repository) CreateBusiness(business *domain.Business) error {
	query := `
		INSERT INTO businesses (name)
		VALUES ($1)
		RETURNING id, is_active, is_archived, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	dst := []any{&business.ID, &business.IsActive, &business.IsArchived, &business.CreatedAt, &business.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, business.Name).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// GetMembershipsByUserID 返回的列表按加入时间排序
// 商家解析的兜底规则（取第一个商家）依赖这个顺序稳定
func (r *Repository) GetMembershipsByUserID(userID int64) ([]domain.BusinessMembership, error) {
	query := `
		SELECT id, business_id, role, created_at
		FROM business_memberships
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := make([]domain.BusinessMembership, 0)
	for rows.Next() {
		membership := domain.BusinessMembership{
			UserID: userID,
		}
		dst := []any{&membership.ID, &membership.BusinessID, &membership.Role, &membership.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		memberships = append(memberships, membership)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return memberships, nil
}

func (r *Repository) CreateMembership(membership *domain.BusinessMembership) error {
	query := `
		INSERT INTO business_memberships (user_id, business_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{membership.UserID, membership.BusinessID, membership.Role}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&membership.ID, &membership.CreatedAt); err != nil {
		return err
	}

	return nil
}
