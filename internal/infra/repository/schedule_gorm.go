package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// ScheduleGormRepository backs the provider directory and working-hours configuration.
type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) ActiveProvidersBySlug(
	ctx context.Context,
	slug string,
) ([]models.Provider, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&tenant).Error; err != nil {
		return nil, notFound(err, httperr.CodeTenantNotFound)
	}

	var providers []models.Provider
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = true", tenant.ID).
		Order("name ASC").
		Find(&providers).Error
	return providers, err
}

func (r *ScheduleGormRepository) GetProvider(
	ctx context.Context,
	id uint,
) (*models.Provider, error) {

	var provider models.Provider
	if err := r.db.WithContext(ctx).First(&provider, id).Error; err != nil {
		return nil, notFound(err, httperr.CodeProviderNotFound)
	}
	return &provider, nil
}

func (r *ScheduleGormRepository) ListWorkingHours(
	ctx context.Context,
	providerID uint,
) ([]models.WorkingHours, error) {

	var hours []models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("weekday ASC").
		Find(&hours).Error
	return hours, err
}

// ReplaceWorkingHours swaps the provider's whole week in one transaction.
func (r *ScheduleGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	providerID uint,
	rules []models.WorkingHours,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("provider_id = ?", providerID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		if len(rules) == 0 {
			return nil
		}
		for i := range rules {
			rules[i].ProviderID = providerID
		}
		return tx.Create(&rules).Error
	})
}
