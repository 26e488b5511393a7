package Store

import (
	"context"
	"fmt"

	"Fleetbook/Models"
)

const costOrder = "date ASC, description ASC, id ASC"

// CostFilter narrows ListCosts. Empty fields match everything.
type CostFilter struct {
	Start    string
	End      string
	Category Models.CostCategory
}

// GeneralCostsBetween returns the costs dated start..end inclusive.
func (s *Store) GeneralCostsBetween(ctx context.Context, start, end string) ([]Models.GeneralCost, error) {
	return s.ListCosts(ctx, CostFilter{Start: start, End: end})
}

func (s *Store) ListCosts(ctx context.Context, filter CostFilter) ([]Models.GeneralCost, error) {
	query := s.conn(ctx).Model(&Models.GeneralCost{})
	if filter.Start != "" {
		query = query.Where("date >= ?", filter.Start)
	}
	if filter.End != "" {
		query = query.Where("date <= ?", filter.End)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var costs []Models.GeneralCost
	if err := query.Order(costOrder).Find(&costs).Error; err != nil {
		return nil, fmt.Errorf("list costs: %w", err)
	}
	return costs, nil
}

// CostsForTrips returns the costs attached to any of the given trips.
func (s *Store) CostsForTrips(ctx context.Context, ids []uint) ([]Models.GeneralCost, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var costs []Models.GeneralCost
	err := s.conn(ctx).
		Where("trip_id IN ?", ids).
		Order(costOrder).
		Find(&costs).Error
	if err != nil {
		return nil, fmt.Errorf("costs for %d trips: %w", len(ids), err)
	}
	return costs, nil
}

func (s *Store) CostByID(ctx context.Context, id uint) (Models.GeneralCost, error) {
	var cost Models.GeneralCost
	if err := s.conn(ctx).First(&cost, id).Error; err != nil {
		return Models.GeneralCost{}, notFound(err, fmt.Sprintf("cost %d", id))
	}
	return cost, nil
}

func (s *Store) CreateCost(ctx context.Context, cost *Models.GeneralCost) error {
	if err := s.conn(ctx).Create(cost).Error; err != nil {
		return fmt.Errorf("create cost: %w", err)
	}
	return nil
}

func (s *Store) UpdateCost(ctx context.Context, cost *Models.GeneralCost) error {
	if err := s.conn(ctx).Save(cost).Error; err != nil {
		return fmt.Errorf("update cost %d: %w", cost.ID, err)
	}
	return nil
}

func (s *Store) DeleteCost(ctx context.Context, id uint) error {
	result := s.conn(ctx).Delete(&Models.GeneralCost{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete cost %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("cost %d: %w", id, ErrNotFound)
	}
	return nil
}
