package lead

import (
	"context"

	"gharinto/internal/domain"
	"gharinto/internal/modules/wallet"
	"gharinto/internal/repository"
)

// LeadRepositoryInterface covers the store operations the service needs.
type LeadRepositoryInterface interface {
	Create(ctx context.Context, l *domain.Lead) error
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)
	List(ctx context.Context, f repository.LeadFilter) ([]domain.Lead, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*domain.Lead, error)
	Assign(ctx context.Context, leadID, staffID int64) (*domain.Lead, error)
	ConvertToProject(ctx context.Context, leadID int64, p *domain.Project, bonus *wallet.BonusCredit) (*domain.Lead, error)
	CountByStatus(ctx context.Context) (map[domain.LeadStatus]int64, error)
	AverageScore(ctx context.Context) (float64, error)
}

// UserReaderInterface resolves staff, referrers, and lead owners.
type UserReaderInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByReferralCode(ctx context.Context, code string) (*domain.User, error)
}

// NotificationSender is fire-and-forget; the pipeline never consults failures.
type NotificationSender interface {
	NotifyLeadAssigned(ctx context.Context, staffID, leadID int64, leadName string, reassigned bool) error
	NotifyLeadConverted(ctx context.Context, userID, leadID, projectID int64, projectTitle string) error
	NotifyProjectCreated(ctx context.Context, designerID, projectID int64, projectTitle string) error
	NotifyWalletCredited(ctx context.Context, userID, amount int64, note string) error
}

// EventLogger records business events, also fire-and-forget.
type EventLogger interface {
	LogEvent(category, action string, metadata map[string]any)
}
