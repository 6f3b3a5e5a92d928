package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/roster"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) roster.IdentityRepository {
	return &employeeRepository{db: db}
}

// ListEmployees implements roster.IdentityRepository.
func (r *employeeRepository) ListEmployees(ctx context.Context) ([]roster.Identity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, first_name, last_name,
			   COALESCE(email, ''), COALESCE(department, ''), COALESCE(position, ''),
			   is_active, last_login, is_staff, is_superuser
		FROM employees
		ORDER BY full_name ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var identities []roster.Identity
	for rows.Next() {
		var (
			identity  roster.Identity
			lastLogin *time.Time
		)
		if err := rows.Scan(
			&identity.ID, &identity.FullName, &identity.FirstName, &identity.LastName,
			&identity.Email, &identity.Department, &identity.Position,
			&identity.IsActive, &lastLogin, &identity.IsStaff, &identity.IsSuperuser,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		if lastLogin != nil {
			identity.LastLogin = lastLogin.Format(time.RFC3339)
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return identities, nil
}
