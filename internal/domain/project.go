package domain

import "time"

type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusOnHold     ProjectStatus = "on_hold"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

var validProjectStatuses = map[ProjectStatus]bool{
	ProjectStatusPlanning: true, ProjectStatusInProgress: true, ProjectStatusOnHold: true,
	ProjectStatusCompleted: true, ProjectStatusCancelled: true,
}

func ValidProjectStatus(s string) bool { return validProjectStatuses[ProjectStatus(s)] }

// Project is a billable engagement, usually born from a converted lead.
type Project struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Client contact copied from the lead at conversion time.
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	ClientPhone string `json:"clientPhone"`

	City         string       `json:"city"`
	PropertyType PropertyType `json:"propertyType"`
	Budget       int64        `json:"budget"`

	Status     ProjectStatus `json:"status"`
	DesignerID *int64        `json:"designerId,omitempty"`
	LeadID     *int64        `json:"leadId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
