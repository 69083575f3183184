package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"gharinto/internal/domain"
	"gharinto/internal/modules/wallet"
	"gharinto/internal/pkg/validator"
	"gharinto/internal/repository"
)

// Credited to the referrer when a lead they referred becomes a project.
const conversionReferralBonus = 2000

type Service struct {
	repo   LeadRepositoryInterface
	users  UserReaderInterface
	notifs NotificationSender
	events EventLogger
}

func NewService(repo LeadRepositoryInterface, users UserReaderInterface, notifs NotificationSender, events EventLogger) *Service {
	return &Service{repo: repo, users: users, notifs: notifs, events: events}
}

// Create validates the intake payload, scores it, and persists the lead with
// status new. An unknown referral code is ignored rather than rejected; an
// inbound sales lead is never bounced over a mistyped code.
func (s *Service) Create(ctx context.Context, req CreateLeadRequest) (*domain.Lead, error) {
	if err := validateEnums(req.ProjectType, req.PropertyType, req.Timeline, &req.Source); err != nil {
		return nil, err
	}
	if err := validateBudgetRange(req.BudgetMin, req.BudgetMax); err != nil {
		return nil, err
	}

	l := &domain.Lead{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		City:         strings.TrimSpace(req.City),
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		ProjectType:  domain.ProjectType(req.ProjectType),
		PropertyType: domain.PropertyType(req.PropertyType),
		Timeline:     domain.Timeline(req.Timeline),
		Source:       domain.LeadSource(req.Source),
		Description:  strings.TrimSpace(req.Description),
		Status:       domain.LeadStatusNew,
	}
	if l.FirstName == "" || l.LastName == "" || l.Phone == "" || l.City == "" {
		return nil, fmt.Errorf("%w: contact fields must be non-empty", ErrValidation)
	}
	if !validator.Phone(l.Phone) {
		return nil, fmt.Errorf("%w: phone must be a dialable number", ErrValidation)
	}

	if req.ReferralCode != "" {
		if referrer, err := s.users.GetByReferralCode(ctx, strings.TrimSpace(req.ReferralCode)); err == nil {
			l.ReferredBy = &referrer.ID
		}
	}

	l.Score = Score(l)

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	s.events.LogEvent("lead", "created", map[string]any{
		"leadId": l.ID,
		"score":  l.Score,
		"source": string(l.Source),
		"city":   l.City,
	})
	return l, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Lead, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) List(ctx context.Context, f repository.LeadFilter) ([]domain.Lead, int64, error) {
	if f.Status != nil && !domain.ValidLeadStatus(string(*f.Status)) {
		return nil, 0, fmt.Errorf("%w: unknown status filter", ErrValidation)
	}
	return s.repo.List(ctx, f)
}

// Update applies a partial edit. Terminal leads refuse every edit; the status
// field additionally goes through the transition rules, and converted is
// never reachable this way. Score is recomputed when scored attributes move.
func (s *Service) Update(ctx context.Context, id int64, req UpdateLeadRequest) (*domain.Lead, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, ErrInvalidState
	}

	fields := map[string]any{}

	if err := applyContactFields(fields, &req); err != nil {
		return nil, err
	}

	rescore := false
	if req.BudgetMin != nil || req.BudgetMax != nil {
		min, max := current.BudgetMin, current.BudgetMax
		if req.BudgetMin != nil {
			min = req.BudgetMin
		}
		if req.BudgetMax != nil {
			max = req.BudgetMax
		}
		if err := validateBudgetRange(min, max); err != nil {
			return nil, err
		}
		if req.BudgetMin != nil {
			fields["budget_min"] = *req.BudgetMin
			current.BudgetMin = req.BudgetMin
			rescore = true
		}
		if req.BudgetMax != nil {
			fields["budget_max"] = *req.BudgetMax
			current.BudgetMax = req.BudgetMax
		}
	}
	if req.ProjectType != nil {
		if !domain.ValidProjectType(*req.ProjectType) {
			return nil, fmt.Errorf("%w: unknown projectType", ErrValidation)
		}
		fields["project_type"] = *req.ProjectType
		current.ProjectType = domain.ProjectType(*req.ProjectType)
		rescore = true
	}
	if req.PropertyType != nil {
		if !domain.ValidPropertyType(*req.PropertyType) {
			return nil, fmt.Errorf("%w: unknown propertyType", ErrValidation)
		}
		fields["property_type"] = *req.PropertyType
	}
	if req.Timeline != nil {
		if !domain.ValidTimeline(*req.Timeline) {
			return nil, fmt.Errorf("%w: unknown timeline", ErrValidation)
		}
		fields["timeline"] = *req.Timeline
		current.Timeline = domain.Timeline(*req.Timeline)
		rescore = true
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}

	if req.Status != nil {
		to := domain.LeadStatus(*req.Status)
		if !domain.ValidLeadStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown status", ErrValidation)
		}
		if !domain.CanTransition(current.Status, to) {
			return nil, ErrInvalidState
		}
		fields["status"] = *req.Status
	}

	if req.AssignedTo != nil {
		staff, err := s.resolveStaff(ctx, *req.AssignedTo)
		if err != nil {
			return nil, err
		}
		fields["assigned_to"] = staff.ID
	}

	if rescore {
		fields["score"] = Score(current)
	}

	if len(fields) == 0 {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.events.LogEvent("lead", "updated", map[string]any{"leadId": id})
	return updated, nil
}

// Assign attaches the lead to a designer or project manager. Assignment does
// not advance the status machine; the notification is best effort.
func (s *Service) Assign(ctx context.Context, leadID, staffID int64) (*domain.Lead, error) {
	current, err := s.Get(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, ErrTerminalState
	}

	staff, err := s.resolveStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	reassigned := current.AssignedTo != nil

	updated, err := s.repo.Assign(ctx, leadID, staff.ID)
	if err != nil {
		if errors.Is(err, repository.ErrLeadStatusConflict) {
			return nil, ErrTerminalState
		}
		return nil, mapStoreError(err)
	}

	_ = s.notifs.NotifyLeadAssigned(ctx, staff.ID, leadID, updated.FullName(), reassigned)
	s.events.LogEvent("lead", "assigned", map[string]any{
		"leadId":     leadID,
		"staffId":    staff.ID,
		"reassigned": reassigned,
	})
	return updated, nil
}

// Convert runs the orchestrated lead-to-project transition. The project
// insert, status flip, and referral bonus commit atomically; notifications
// and event logging happen after the commit and never undo it.
func (s *Service) Convert(ctx context.Context, leadID int64, req ConvertLeadRequest) (*domain.Lead, *domain.Project, string, error) {
	current, err := s.Get(ctx, leadID)
	if err != nil {
		return nil, nil, "", err
	}
	if current.Status.Terminal() {
		return nil, nil, "", ErrInvalidState
	}

	if strings.TrimSpace(req.ProjectTitle) == "" {
		return nil, nil, "", fmt.Errorf("%w: projectTitle must be non-empty", ErrValidation)
	}
	if req.Budget <= 0 {
		return nil, nil, "", fmt.Errorf("%w: budget must be positive", ErrValidation)
	}

	designerID := s.resolveDesigner(ctx, req.DesignerID, current.AssignedTo)

	project := &domain.Project{
		Title:        strings.TrimSpace(req.ProjectTitle),
		Description:  strings.TrimSpace(req.ProjectDescription),
		ClientName:   current.FullName(),
		ClientEmail:  current.Email,
		ClientPhone:  current.Phone,
		City:         current.City,
		PropertyType: current.PropertyType,
		Budget:       req.Budget,
		Status:       domain.ProjectStatusPlanning,
		DesignerID:   designerID,
		LeadID:       &leadID,
	}

	var bonus *wallet.BonusCredit
	if current.ReferredBy != nil {
		bonus = &wallet.BonusCredit{
			UserID: *current.ReferredBy,
			Amount: conversionReferralBonus,
			Note:   fmt.Sprintf("Referral bonus: lead %d converted to project", leadID),
		}
	}

	converted, err := s.repo.ConvertToProject(ctx, leadID, project, bonus)
	if err != nil {
		return nil, nil, "", mapStoreError(err)
	}

	warning := budgetWarning(req.Budget, current.BudgetMin, current.BudgetMax)

	s.notifyConversion(ctx, converted, project)
	s.events.LogEvent("lead", "converted", map[string]any{
		"leadId":    leadID,
		"projectId": project.ID,
		"budget":    req.Budget,
	})

	return converted, project, warning, nil
}

func (s *Service) Stats(ctx context.Context) (*LeadStats, error) {
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	avg, err := s.repo.AverageScore(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}
	var rate float64
	if total > 0 {
		rate = float64(byStatus[domain.LeadStatusConverted]) / float64(total)
	}
	return &LeadStats{Total: total, ByStatus: byStatus, AverageScore: avg, ConversionRate: rate}, nil
}

// resolveStaff loads the assignee and enforces role eligibility.
func (s *Service) resolveStaff(ctx context.Context, staffID int64) (*domain.User, error) {
	staff, err := s.users.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	if !staff.Role.CanOwnLeads() {
		return nil, ErrInvalidRole
	}
	return staff, nil
}

// resolveDesigner prefers the explicit designerId when it names an eligible
// identity, falls back to the lead's current assignee, else leaves the
// project unassigned for later manual assignment.
func (s *Service) resolveDesigner(ctx context.Context, designerID, assignedTo *int64) *int64 {
	if designerID != nil {
		if staff, err := s.resolveStaff(ctx, *designerID); err == nil {
			return &staff.ID
		}
	}
	return assignedTo
}

func (s *Service) notifyConversion(ctx context.Context, l *domain.Lead, p *domain.Project) {
	if client, err := s.users.GetByEmail(ctx, l.Email); err == nil {
		_ = s.notifs.NotifyLeadConverted(ctx, client.ID, l.ID, p.ID, p.Title)
	}
	if p.DesignerID != nil {
		_ = s.notifs.NotifyProjectCreated(ctx, *p.DesignerID, p.ID, p.Title)
	}
	if l.ReferredBy != nil {
		_ = s.notifs.NotifyWalletCredited(ctx, *l.ReferredBy, conversionReferralBonus, "Referral bonus for converted lead")
	}
}

func applyContactFields(fields map[string]any, req *UpdateLeadRequest) error {
	set := func(column, value string) error {
		v := strings.TrimSpace(value)
		if v == "" {
			return fmt.Errorf("%w: %s must be non-empty", ErrValidation, column)
		}
		fields[column] = v
		return nil
	}

	if req.FirstName != nil {
		if err := set("first_name", *req.FirstName); err != nil {
			return err
		}
	}
	if req.LastName != nil {
		if err := set("last_name", *req.LastName); err != nil {
			return err
		}
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !validator.Email(email) {
			return fmt.Errorf("%w: email must be a valid address", ErrValidation)
		}
		fields["email"] = email
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if !validator.Phone(phone) {
			return fmt.Errorf("%w: phone must be a dialable number", ErrValidation)
		}
		fields["phone"] = phone
	}
	if req.City != nil {
		if err := set("city", *req.City); err != nil {
			return err
		}
	}
	return nil
}

func validateEnums(projectType, propertyType, timeline string, source *string) error {
	if !domain.ValidProjectType(projectType) {
		return fmt.Errorf("%w: unknown projectType", ErrValidation)
	}
	if !domain.ValidPropertyType(propertyType) {
		return fmt.Errorf("%w: unknown propertyType", ErrValidation)
	}
	if !domain.ValidTimeline(timeline) {
		return fmt.Errorf("%w: unknown timeline", ErrValidation)
	}
	if source != nil && !domain.ValidLeadSource(*source) {
		return fmt.Errorf("%w: unknown source", ErrValidation)
	}
	return nil
}

func validateBudgetRange(min, max *int64) error {
	if min != nil && *min < 0 {
		return fmt.Errorf("%w: budgetMin must not be negative", ErrValidation)
	}
	if max != nil && *max < 0 {
		return fmt.Errorf("%w: budgetMax must not be negative", ErrValidation)
	}
	if min != nil && max != nil && *min > *max {
		return fmt.Errorf("%w: budgetMin must not exceed budgetMax", ErrValidation)
	}
	return nil
}

func budgetWarning(budget int64, min, max *int64) string {
	if min != nil && budget < *min {
		return fmt.Sprintf("project budget %d is below the lead's stated minimum %d", budget, *min)
	}
	if max != nil && budget > *max {
		return fmt.Sprintf("project budget %d exceeds the lead's stated maximum %d", budget, *max)
	}
	return ""
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrLeadNotFound
	case errors.Is(err, repository.ErrLeadStatusConflict):
		return ErrInvalidState
	default:
		return err
	}
}
