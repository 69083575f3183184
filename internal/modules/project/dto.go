package project

import "gharinto/internal/domain"

type CreateProjectRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	ClientName   string `json:"clientName" binding:"required"`
	ClientEmail  string `json:"clientEmail" binding:"required,email"`
	ClientPhone  string `json:"clientPhone"`
	City         string `json:"city" binding:"required"`
	PropertyType string `json:"propertyType" binding:"required"`
	Budget       int64  `json:"budget" binding:"required,gt=0"`
	DesignerID   *int64 `json:"designerId"`
}

type UpdateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Budget      *int64  `json:"budget"`
	DesignerID  *int64  `json:"designerId"`
}

type ListProjectsResponse struct {
	Projects []domain.Project `json:"projects"`
	Total    int64            `json:"total"`
}
