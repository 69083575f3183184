package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"gharinto/internal/domain"
	"gharinto/internal/modules/wallet"
)

func setupLeadRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:leadrepo_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	require.NoError(t, wallet.AutoMigrate(db))
	return db
}

func seedLead(t *testing.T, repo *LeadRepository, status domain.LeadStatus) *domain.Lead {
	t.Helper()
	l := &domain.Lead{
		FirstName:    "Asha",
		LastName:     "Verma",
		Email:        "asha@example.com",
		Phone:        "+91-9876543210",
		City:         "Mumbai",
		ProjectType:  domain.ProjectTypeFullHome,
		PropertyType: domain.PropertyTypeApartment,
		Timeline:     domain.TimelineImmediate,
		Source:       domain.SourceWebsiteForm,
		Status:       status,
	}
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}

func conversionProject(l *domain.Lead) *domain.Project {
	return &domain.Project{
		Title:        "Verma Residence",
		ClientName:   l.FullName(),
		ClientEmail:  l.Email,
		ClientPhone:  l.Phone,
		City:         l.City,
		PropertyType: l.PropertyType,
		Budget:       450_000,
		Status:       domain.ProjectStatusPlanning,
		LeadID:       &l.ID,
	}
}

// A failed project insert must leave the lead untouched and credit nothing,
// even though the status flip and bonus would have followed in the same call.
func TestConvertToProjectRollsBackWhenProjectInsertFails(t *testing.T) {
	db := setupLeadRepoDB(t)
	repo := NewLeadRepository(db)
	ctx := context.Background()

	l := seedLead(t, repo, domain.LeadStatusQualified)

	// Occupy the lead's one-project slot so the insert inside the
	// conversion transaction hits the unique index.
	blocker := conversionProject(l)
	blocker.Title = "Existing Conversion"
	require.NoError(t, NewProjectRepository(db).Create(ctx, blocker))

	referrerID := int64(77)
	bonus := &wallet.BonusCredit{UserID: referrerID, Amount: 2000, Note: "referral"}
	_, err := repo.ConvertToProject(ctx, l.ID, conversionProject(l), bonus)
	require.Error(t, err)

	reloaded, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusQualified, reloaded.Status)
	assert.Nil(t, reloaded.ConvertedToProject)

	var projects int64
	require.NoError(t, db.Model(&projectModel{}).Count(&projects).Error)
	assert.Equal(t, int64(1), projects)

	w, err := wallet.NewService(db).GetOrCreateWallet(ctx, referrerID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance)
}

func TestConvertToProjectRefusesTerminalLead(t *testing.T) {
	db := setupLeadRepoDB(t)
	repo := NewLeadRepository(db)
	ctx := context.Background()

	l := seedLead(t, repo, domain.LeadStatusLost)

	_, err := repo.ConvertToProject(ctx, l.ID, conversionProject(l), nil)
	assert.ErrorIs(t, err, ErrLeadStatusConflict)

	var projects int64
	require.NoError(t, db.Model(&projectModel{}).Count(&projects).Error)
	assert.Equal(t, int64(0), projects)
}

func TestConvertToProjectMissingLead(t *testing.T) {
	db := setupLeadRepoDB(t)
	repo := NewLeadRepository(db)

	l := seedLead(t, repo, domain.LeadStatusQualified)
	p := conversionProject(l)
	missing := l.ID + 1000
	p.LeadID = &missing

	_, err := repo.ConvertToProject(context.Background(), missing, p, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
