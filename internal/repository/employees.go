package repository

import (
	"context"
	"time"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	query := `
		SELECT business_id, first_name, last_name, email, is_active, is_archived, created_at, version
		FROM employees WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	employee := &domain.Employee{
		ID: id,
	}

	dst := []any{&employee.BusinessID, &employee.FirstName, &employee.LastName, &employee.Email, &employee.IsActive, &employee.IsArchived, &employee.CreatedAt, &employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return employee, nil
}

// GetEmployeesByBusinessID 默认不返回已归档的员工
func (r *Repository) GetEmployeesByBusinessID(businessID int64) ([]*domain.Employee, error) {
	query := `
		SELECT id, first_name, last_name, email, is_active, is_archived, created_at, version
		FROM employees
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

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee := &domain.Employee{
			BusinessID: businessID,
		}
		dst := []any{&employee.ID, &employee.FirstName, &employee.LastName, &employee.Email, &employee.IsActive, &employee.IsArchived, &employee.CreatedAt, &employee.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	query := `
		INSERT INTO employees (business_id, first_name, last_name, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, is_archived, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{employee.BusinessID, employee.FirstName, employee.LastName, employee.Email}
	dst := []any{&employee.ID, &employee.IsActive, &employee.IsArchived, &employee.CreatedAt, &employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateEmployee(employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET
			first_name = $1,
			last_name = $2,
			email = $3,
			is_active = $4,
			is_archived = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{employee.FirstName, employee.LastName, employee.Email, employee.IsActive, employee.IsArchived, employee.ID, employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.Version); err != nil {
		return err
	}

	return nil
}
