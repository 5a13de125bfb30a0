package service

import (
	"context"

	"github.com/spec-kit/it-repair-service/internal/domain"
	"github.com/spec-kit/it-repair-service/internal/repository"
	apperrors "github.com/spec-kit/it-repair-service/pkg/util"
)

// DepartmentService exposes the department catalog.
type DepartmentService struct {
	departments repository.DepartmentRepository
}

// NewDepartmentService wires the service.
func NewDepartmentService(departments repository.DepartmentRepository) *DepartmentService {
	return &DepartmentService{departments: departments}
}

// ListActive returns active departments for submission forms.
func (s *DepartmentService) ListActive(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.departments.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if departments == nil {
		departments = []domain.Department{}
	}
	return departments, nil
}

// Create adds a department to the catalog.
func (s *DepartmentService) Create(ctx context.Context, name string) (*domain.Department, error) {
	dept := &domain.Department{Name: name, IsActive: true}
	if err := s.departments.Create(ctx, dept); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("department name already exists", map[string]any{"name": name})
		}
		return nil, err
	}
	return dept, nil
}
