package lead

import "gharinto/internal/domain"

type CreateLeadRequest struct {
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required"`
	City         string `json:"city" binding:"required"`
	BudgetMin    *int64 `json:"budgetMin"`
	BudgetMax    *int64 `json:"budgetMax"`
	ProjectType  string `json:"projectType" binding:"required"`
	PropertyType string `json:"propertyType" binding:"required"`
	Timeline     string `json:"timeline" binding:"required"`
	Source       string `json:"source" binding:"required"`
	Description  string `json:"description"`
	ReferralCode string `json:"referralCode"`
}

// UpdateLeadRequest carries only the fields the caller wants changed. Score
// is derived and never accepted from the caller; source is immutable.
type UpdateLeadRequest struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	City         *string `json:"city"`
	BudgetMin    *int64  `json:"budgetMin"`
	BudgetMax    *int64  `json:"budgetMax"`
	ProjectType  *string `json:"projectType"`
	PropertyType *string `json:"propertyType"`
	Timeline     *string `json:"timeline"`
	Description  *string `json:"description"`
	Status       *string `json:"status"`
	AssignedTo   *int64  `json:"assignedTo"`
}

type AssignLeadRequest struct {
	AssignedTo int64 `json:"assignedTo" binding:"required"`
}

type ConvertLeadRequest struct {
	ProjectTitle       string `json:"projectTitle" binding:"required"`
	ProjectDescription string `json:"projectDescription"`
	Budget             int64  `json:"budget" binding:"required,gt=0"`
	DesignerID         *int64 `json:"designerId"`
}

type ListLeadsResponse struct {
	Leads []domain.Lead `json:"leads"`
	Total int64         `json:"total"`
}

type ConvertLeadResponse struct {
	Message       string         `json:"message"`
	Lead          ConvertedLead  `json:"lead"`
	Project       CreatedProject `json:"project"`
	BudgetWarning string         `json:"budgetWarning,omitempty"`
}

type ConvertedLead struct {
	ID     int64             `json:"id"`
	Status domain.LeadStatus `json:"status"`
}

type CreatedProject struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
}

type LeadStats struct {
	Total          int64                       `json:"total"`
	ByStatus       map[domain.LeadStatus]int64 `json:"byStatus"`
	AverageScore   float64                     `json:"averageScore"`
	ConversionRate float64                     `json:"conversionRate"`
}
