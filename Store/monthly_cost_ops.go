package Store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Fleetbook/Models"
)

// GetOrCreateMonthlyCost returns the fixed costs of ym, inserting a zeroed
// row when none exists. created reports whether this call inserted it.
func (s *Store) GetOrCreateMonthlyCost(ctx context.Context, ym string) (Models.MonthlyFixedCost, bool, error) {
	var cost Models.MonthlyFixedCost
	err := s.conn(ctx).Where("year_month = ?", ym).First(&cost).Error
	if err == nil {
		return cost, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Models.MonthlyFixedCost{}, false, fmt.Errorf("monthly cost %s: %w", ym, err)
	}

	cost = Models.MonthlyFixedCost{YearMonth: ym}
	result := s.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "year_month"}}, DoNothing: true}).
		Create(&cost)
	if result.Error != nil {
		return Models.MonthlyFixedCost{}, false, fmt.Errorf("create monthly cost %s: %w", ym, result.Error)
	}

	// a concurrent request may have inserted it first
	var stored Models.MonthlyFixedCost
	if err := s.conn(ctx).Where("year_month = ?", ym).First(&stored).Error; err != nil {
		return Models.MonthlyFixedCost{}, false, fmt.Errorf("reload monthly cost %s: %w", ym, err)
	}
	return stored, result.RowsAffected == 1, nil
}

// UpsertMonthlyCost writes the subtotals of cost.YearMonth and reloads cost.
func (s *Store) UpsertMonthlyCost(ctx context.Context, cost *Models.MonthlyFixedCost) error {
	err := s.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "year_month"}},
			DoUpdates: clause.AssignmentColumns([]string{"parts", "insurance", "maintenance", "updated_at"}),
		}).
		Create(cost).Error
	if err != nil {
		return fmt.Errorf("upsert monthly cost %s: %w", cost.YearMonth, err)
	}
	var stored Models.MonthlyFixedCost
	if err := s.conn(ctx).Where("year_month = ?", cost.YearMonth).First(&stored).Error; err != nil {
		return fmt.Errorf("reload monthly cost %s: %w", cost.YearMonth, err)
	}
	*cost = stored
	return nil
}

func (s *Store) DeleteMonthlyCost(ctx context.Context, ym string) error {
	result := s.conn(ctx).Where("year_month = ?", ym).Delete(&Models.MonthlyFixedCost{})
	if result.Error != nil {
		return fmt.Errorf("delete monthly cost %s: %w", ym, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("monthly cost %s: %w", ym, ErrNotFound)
	}
	return nil
}
