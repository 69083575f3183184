package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"gharinto/internal/domain"
	"gharinto/internal/modules/wallet"
)

// ErrLeadStatusConflict is returned when a conditional write finds the lead
// already in a terminal status, either a stale caller or a lost race.
var ErrLeadStatusConflict = errors.New("lead status changed concurrently")

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) DB() *gorm.DB {
	return r.db
}

type leadModel struct {
	ID                 int64     `gorm:"column:id;primaryKey"`
	FirstName          string    `gorm:"column:first_name"`
	LastName           string    `gorm:"column:last_name"`
	Email              string    `gorm:"column:email;index"`
	Phone              string    `gorm:"column:phone"`
	City               string    `gorm:"column:city;index"`
	BudgetMin          *int64    `gorm:"column:budget_min"`
	BudgetMax          *int64    `gorm:"column:budget_max"`
	ProjectType        string    `gorm:"column:project_type"`
	PropertyType       string    `gorm:"column:property_type"`
	Timeline           string    `gorm:"column:timeline"`
	Source             string    `gorm:"column:source"`
	Description        *string   `gorm:"column:description"`
	Score              int       `gorm:"column:score;index"`
	Status             string    `gorm:"column:status;index"`
	AssignedTo         *int64    `gorm:"column:assigned_to;index"`
	ReferredBy         *int64    `gorm:"column:referred_by"`
	ConvertedToProject *int64    `gorm:"column:converted_to_project"`
	CreatedAt          time.Time `gorm:"column:created_at;index"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (leadModel) TableName() string { return "leads" }

func toDomainLead(m leadModel) *domain.Lead {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}

	return &domain.Lead{
		ID:                 m.ID,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Email:              m.Email,
		Phone:              m.Phone,
		City:               m.City,
		BudgetMin:          m.BudgetMin,
		BudgetMax:          m.BudgetMax,
		ProjectType:        domain.ProjectType(m.ProjectType),
		PropertyType:       domain.PropertyType(m.PropertyType),
		Timeline:           domain.Timeline(m.Timeline),
		Source:             domain.LeadSource(m.Source),
		Description:        desc,
		Score:              m.Score,
		Status:             domain.LeadStatus(m.Status),
		AssignedTo:         m.AssignedTo,
		ReferredBy:         m.ReferredBy,
		ConvertedToProject: m.ConvertedToProject,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toLeadModel(l *domain.Lead) leadModel {
	var desc *string
	if l.Description != "" {
		v := l.Description
		desc = &v
	}

	return leadModel{
		ID:                 l.ID,
		FirstName:          l.FirstName,
		LastName:           l.LastName,
		Email:              l.Email,
		Phone:              l.Phone,
		City:               l.City,
		BudgetMin:          l.BudgetMin,
		BudgetMax:          l.BudgetMax,
		ProjectType:        string(l.ProjectType),
		PropertyType:       string(l.PropertyType),
		Timeline:           string(l.Timeline),
		Source:             string(l.Source),
		Description:        desc,
		Score:              l.Score,
		Status:             string(l.Status),
		AssignedTo:         l.AssignedTo,
		ReferredBy:         l.ReferredBy,
		ConvertedToProject: l.ConvertedToProject,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

func (r *LeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	m := toLeadModel(l)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*l = *toDomainLead(m)
	return nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	var m leadModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainLead(m), nil
}

// LeadFilter narrows List; filters are conjunctive.
type LeadFilter struct {
	Status   *domain.LeadStatus
	City     *string
	MinScore *int
	Page     int
	PageSize int
}

func (r *LeadRepository) List(ctx context.Context, f LeadFilter) ([]domain.Lead, int64, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	q := r.db.WithContext(ctx).Model(&leadModel{})
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.City != nil {
		q = q.Where("LOWER(city) = LOWER(?)", *f.City)
	}
	if f.MinScore != nil {
		q = q.Where("score >= ?", *f.MinScore)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []leadModel
	err := q.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Lead, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainLead(m))
	}
	return out, total, nil
}

// Update applies a partial edit, refusing to touch leads already in a
// terminal status. The guard sits in the WHERE clause so an edit racing a
// conversion cannot clobber the converted row.
func (r *LeadRepository) Update(ctx context.Context, id int64, fields map[string]any) (*domain.Lead, error) {
	fields["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).
		Model(&leadModel{}).
		Where("id = ? AND status NOT IN ?", id, domain.TerminalLeadStatuses).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, r.classifyMiss(ctx, id)
	}

	return r.GetByID(ctx, id)
}

// Assign records ownership without advancing the status machine.
func (r *LeadRepository) Assign(ctx context.Context, leadID, staffID int64) (*domain.Lead, error) {
	res := r.db.WithContext(ctx).
		Model(&leadModel{}).
		Where("id = ? AND status NOT IN ?", leadID, domain.TerminalLeadStatuses).
		Updates(map[string]any{"assigned_to": staffID, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, r.classifyMiss(ctx, leadID)
	}

	return r.GetByID(ctx, leadID)
}

// ConvertToProject is the atomic half of conversion: the project insert, the
// conditional status flip, and any referral bonus commit or roll back
// together. The WHERE guard on the pre-conversion status makes the second of
// two racing converters observe ErrLeadStatusConflict instead of creating a
// duplicate project.
func (r *LeadRepository) ConvertToProject(ctx context.Context, leadID int64, p *domain.Project, bonus *wallet.BonusCredit) (*domain.Lead, error) {
	var converted leadModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pm := toProjectModel(p)
		if err := tx.Create(&pm).Error; err != nil {
			return err
		}

		res := tx.Model(&leadModel{}).
			Where("id = ? AND status NOT IN ?", leadID, domain.TerminalLeadStatuses).
			Updates(map[string]any{
				"status":               string(domain.LeadStatusConverted),
				"converted_to_project": pm.ID,
				"updated_at":           time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.classifyMissTx(tx, leadID)
		}

		if bonus != nil {
			if _, err := wallet.CreditTx(tx, bonus.UserID, bonus.Amount, wallet.TransactionTypeReferralBonus, bonus.Note); err != nil {
				return err
			}
		}

		*p = *toDomainProject(pm)
		return tx.First(&converted, leadID).Error
	})
	if err != nil {
		return nil, err
	}

	return toDomainLead(converted), nil
}

func (r *LeadRepository) CountByStatus(ctx context.Context) (map[domain.LeadStatus]int64, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&leadModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.LeadStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[domain.LeadStatus(status)] = count
	}
	return counts, rows.Err()
}

func (r *LeadRepository) AverageScore(ctx context.Context) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&leadModel{}).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// classifyMiss distinguishes a missing lead from one a conditional write
// skipped because its status is terminal.
func (r *LeadRepository) classifyMiss(ctx context.Context, id int64) error {
	return r.classifyMissTx(r.db.WithContext(ctx), id)
}

func (r *LeadRepository) classifyMissTx(tx *gorm.DB, id int64) error {
	var count int64
	if err := tx.Model(&leadModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrLeadStatusConflict
}
