package notification

import (
	"context"
	"fmt"
)

type Service struct {
	repo *Repository
	hub  *Hub
}

func NewService(repo *Repository, hub *Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

// Notify persists the notification, then pushes it to the user's socket.
// The push is best effort; a failed or absent socket never fails the caller.
func (s *Service) Notify(ctx context.Context, userID int64, t Type, title, content string, priority Priority, data map[string]any) error {
	n := &Notification{
		UserID:   userID,
		Type:     t,
		Title:    title,
		Content:  content,
		Priority: priority,
		Data:     data,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.SendToUser(userID, n)
	}
	return nil
}

func (s *Service) NotifyLeadAssigned(ctx context.Context, staffID, leadID int64, leadName string, reassigned bool) error {
	title := "New lead assigned"
	if reassigned {
		title = "Lead reassigned to you"
	}
	return s.Notify(ctx, staffID, TypeLeadAssigned, title,
		fmt.Sprintf("Lead %s is now assigned to you.", leadName),
		PriorityHigh,
		map[string]any{"leadId": leadID})
}

func (s *Service) NotifyLeadConverted(ctx context.Context, userID, leadID, projectID int64, projectTitle string) error {
	return s.Notify(ctx, userID, TypeLeadConverted, "Your project is underway",
		fmt.Sprintf("Project %q has been created from your enquiry.", projectTitle),
		PriorityNormal,
		map[string]any{"leadId": leadID, "projectId": projectID})
}

func (s *Service) NotifyProjectCreated(ctx context.Context, designerID, projectID int64, projectTitle string) error {
	return s.Notify(ctx, designerID, TypeProjectCreated, "New project assigned",
		fmt.Sprintf("You have been assigned project %q.", projectTitle),
		PriorityHigh,
		map[string]any{"projectId": projectID})
}

func (s *Service) NotifyWalletCredited(ctx context.Context, userID, amount int64, note string) error {
	return s.Notify(ctx, userID, TypeWalletCredited, "Wallet credited",
		fmt.Sprintf("Your wallet was credited with %d. %s", amount, note),
		PriorityNormal,
		map[string]any{"amount": amount})
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]Notification, int64, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}
