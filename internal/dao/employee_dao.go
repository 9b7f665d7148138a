package dao

import (
	"context"
	"fmt"

	"github.com/pls-team/pls-backend/internal/database"
	"github.com/pls-team/pls-backend/internal/models"
)

const employeesTable = "employees"

// EmployeeDAO handles database operations for the employee directory
type EmployeeDAO struct {
	store Store
}

// NewEmployeeDAO creates a new EmployeeDAO
func NewEmployeeDAO(store Store) *EmployeeDAO {
	return &EmployeeDAO{store: store}
}

// GetByID retrieves an employee by ID
func (dao *EmployeeDAO) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	rows, err := dao.store.SelectByCondition(ctx, employeesTable, database.Record{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("employee %d: %w", id, ErrNotFound)
	}

	return employeeFromRow(rows[0])
}

// List retrieves all employees
func (dao *EmployeeDAO) List(ctx context.Context) ([]models.Employee, error) {
	rows, err := dao.store.SelectAll(ctx, employeesTable)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	employees := make([]models.Employee, 0, len(rows))
	for _, row := range rows {
		employee, err := employeeFromRow(row)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *employee)
	}
	return employees, nil
}

func employeeFromRow(row database.Row) (*models.Employee, error) {
	id, err := row.Int64("id")
	if err != nil {
		return nil, fmt.Errorf("invalid employee id: %w", err)
	}

	return &models.Employee{
		ID:         id,
		Name:       row.String("name"),
		Position:   row.String("position"),
		Department: row.String("department"),
	}, nil
}
