package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/employee"
)

type EmployeeRepository struct {
	mu   sync.RWMutex
	byID map[string]employee.Employee
}

func NewEmployeeRepository(seed ...employee.Employee) *EmployeeRepository {
	repo := &EmployeeRepository{byID: make(map[string]employee.Employee)}
	now := time.Now().UTC()
	for i, emp := range seed {
		if emp.CreatedAt.IsZero() {
			emp.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		}
		if emp.UpdatedAt.IsZero() {
			emp.UpdatedAt = emp.CreatedAt
		}
		repo.byID[emp.ID] = emp
	}
	return repo
}

func (r *EmployeeRepository) Put(emp employee.Employee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[emp.ID] = emp
}

// ListActiveEmployees implements employee.RosterProvider.
func (r *EmployeeRepository) ListActiveEmployees(ctx context.Context) ([]employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var employees []employee.Employee
	for _, emp := range r.byID {
		if emp.Active {
			employees = append(employees, emp)
		}
	}
	sort.Slice(employees, func(i, j int) bool {
		if !employees[i].CreatedAt.Equal(employees[j].CreatedAt) {
			return employees[i].CreatedAt.Before(employees[j].CreatedAt)
		}
		return employees[i].ID < employees[j].ID
	})
	return employees, nil
}

// GetByID implements employee.RosterProvider.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return employee.Employee{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}
