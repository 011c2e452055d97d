package employee

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    id, COALESCE(user_id::text,''), first_name, last_name, email, role_code,
    COALESCE(department_id::text,''), base_salary, status, created_at, updated_at`

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	var emp Employee
	if err := s.DB.QueryRow(ctx, `
    SELECT`+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&emp.ID, &emp.UserID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.RoleCode, &emp.DepartmentID, &emp.BaseSalary, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Store) ListEmployees(ctx context.Context, departmentID string, activeOnly bool) ([]Employee, error) {
	query := "SELECT" + employeeColumns + " FROM employees WHERE 1=1"
	var args []any
	if departmentID != "" {
		args = append(args, departmentID)
		query += " AND department_id = $1"
	}
	if activeOnly {
		args = append(args, StatusActive)
		if len(args) == 1 {
			query += " AND status = $1"
		} else {
			query += " AND status = $2"
		}
	}
	query += " ORDER BY last_name, first_name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.UserID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.RoleCode, &emp.DepartmentID, &emp.BaseSalary, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// ActiveDepartment satisfies the KPI engine's employee directory: it reports
// whether the employee may receive assignments and which department they
// belong to.
func (s *Store) ActiveDepartment(ctx context.Context, employeeID string) (string, bool, error) {
	var departmentID, status string
	if err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(department_id::text,''), status
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&departmentID, &status); err != nil {
		return "", false, err
	}
	return departmentID, status == StatusActive, nil
}

func (s *Store) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	var employeeID string
	if err := s.DB.QueryRow(ctx, "SELECT id FROM employees WHERE user_id = $1", userID).Scan(&employeeID); err != nil {
		return "", err
	}
	return employeeID, nil
}

func (s *Store) UserIDByEmployeeID(ctx context.Context, employeeID string) (string, error) {
	var userID string
	if err := s.DB.QueryRow(ctx, "SELECT COALESCE(user_id::text,'') FROM employees WHERE id = $1", employeeID).Scan(&userID); err != nil {
		return "", err
	}
	return userID, nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, created_at
    FROM departments
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var dept Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, dept)
	}
	return departments, nil
}
