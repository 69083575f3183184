package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"gharinto/internal/domain"
	"gharinto/internal/repository"
)

type Service struct {
	repo *repository.ProjectRepository
}

func NewService(repo *repository.ProjectRepository) *Service {
	return &Service{repo: repo}
}

// Create handles manually opened projects; converted leads reach the store
// through the conversion orchestrator instead.
func (s *Service) Create(ctx context.Context, req CreateProjectRequest) (*domain.Project, error) {
	if !domain.ValidPropertyType(req.PropertyType) {
		return nil, fmt.Errorf("%w: unknown propertyType", ErrValidation)
	}

	p := &domain.Project{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		ClientName:   strings.TrimSpace(req.ClientName),
		ClientEmail:  strings.ToLower(strings.TrimSpace(req.ClientEmail)),
		ClientPhone:  strings.TrimSpace(req.ClientPhone),
		City:         strings.TrimSpace(req.City),
		PropertyType: domain.PropertyType(req.PropertyType),
		Budget:       req.Budget,
		Status:       domain.ProjectStatusPlanning,
		DesignerID:   req.DesignerID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, page, pageSize int) ([]domain.Project, int64, error) {
	return s.repo.List(ctx, page, pageSize)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateProjectRequest) (*domain.Project, error) {
	fields := map[string]any{}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must be non-empty", ErrValidation)
		}
		fields["title"] = title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != nil {
		if !domain.ValidProjectStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown status", ErrValidation)
		}
		fields["status"] = *req.Status
	}
	if req.Budget != nil {
		if *req.Budget <= 0 {
			return nil, fmt.Errorf("%w: budget must be positive", ErrValidation)
		}
		fields["budget"] = *req.Budget
	}
	if req.DesignerID != nil {
		fields["designer_id"] = *req.DesignerID
	}

	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	p, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}
