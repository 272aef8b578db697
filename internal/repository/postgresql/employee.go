package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/zedbooks/accounting-backend-go/internal/domain/employee"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, company_id, full_name, basic_salary, housing_allowance, transport_allowance,
	other_allowance, is_consultant, consultant_type, apply_paye, apply_napsa, apply_nhima,
	apply_wht, pension_enabled, pension_employee_rate, pension_employer_rate,
	employment_status, hire_date, created_at, updated_at
`

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}

	return emp, nil
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1 AND employment_status = $2 AND deleted_at IS NULL
		ORDER BY full_name
	`

	rows, err := q.Query(ctx, query, companyID, employee.EmploymentStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	var consultantType *string
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.FullName, &emp.BasicSalary, &emp.HousingAllowance,
		&emp.TransportAllowance, &emp.OtherAllowance, &emp.IsConsultant, &consultantType,
		&emp.ApplyPaye, &emp.ApplyNapsa, &emp.ApplyNhima, &emp.ApplyWht,
		&emp.PensionEnabled, &emp.PensionEmployeeRate, &emp.PensionEmployerRate,
		&emp.EmploymentStatus, &emp.HireDate, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if consultantType != nil {
		emp.ConsultantType = employee.ConsultantType(*consultantType)
	}
	return emp, nil
}
