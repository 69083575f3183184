package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gharinto/internal/domain"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type projectModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Title        string    `gorm:"column:title"`
	Description  *string   `gorm:"column:description"`
	ClientName   string    `gorm:"column:client_name"`
	ClientEmail  string    `gorm:"column:client_email"`
	ClientPhone  string    `gorm:"column:client_phone"`
	City         string    `gorm:"column:city"`
	PropertyType string    `gorm:"column:property_type"`
	Budget       int64     `gorm:"column:budget"`
	Status       string    `gorm:"column:status;index"`
	DesignerID   *int64    `gorm:"column:designer_id;index"`
	LeadID       *int64    `gorm:"column:lead_id;uniqueIndex"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (projectModel) TableName() string { return "projects" }

func toDomainProject(m projectModel) *domain.Project {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}

	return &domain.Project{
		ID:           m.ID,
		Title:        m.Title,
		Description:  desc,
		ClientName:   m.ClientName,
		ClientEmail:  m.ClientEmail,
		ClientPhone:  m.ClientPhone,
		City:         m.City,
		PropertyType: domain.PropertyType(m.PropertyType),
		Budget:       m.Budget,
		Status:       domain.ProjectStatus(m.Status),
		DesignerID:   m.DesignerID,
		LeadID:       m.LeadID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toProjectModel(p *domain.Project) projectModel {
	var desc *string
	if p.Description != "" {
		v := p.Description
		desc = &v
	}

	return projectModel{
		ID:           p.ID,
		Title:        p.Title,
		Description:  desc,
		ClientName:   p.ClientName,
		ClientEmail:  p.ClientEmail,
		ClientPhone:  p.ClientPhone,
		City:         p.City,
		PropertyType: string(p.PropertyType),
		Budget:       p.Budget,
		Status:       string(p.Status),
		DesignerID:   p.DesignerID,
		LeadID:       p.LeadID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	m := toProjectModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainProject(m)
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var m projectModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainProject(m), nil
}

func (r *ProjectRepository) List(ctx context.Context, page, pageSize int) ([]domain.Project, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&projectModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []projectModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Project, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProject(m))
	}
	return out, total, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id int64, fields map[string]any) (*domain.Project, error) {
	fields["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).Model(&projectModel{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}
