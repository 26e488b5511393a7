package Store

import (
	"context"
	"fmt"

	"Fleetbook/Models"
)

// FixedChargesOverlapping returns the charges whose date span touches
// start..end, whatever their status.
func (s *Store) FixedChargesOverlapping(ctx context.Context, start, end string) ([]Models.FixedMonthlyCharge, error) {
	var charges []Models.FixedMonthlyCharge
	err := s.conn(ctx).
		Where("start_date <= ?", end).
		Where("end_date IS NULL OR end_date = '' OR end_date >= ?", start).
		Order("start_date ASC, id ASC").
		Find(&charges).Error
	if err != nil {
		return nil, fmt.Errorf("fixed charges between %s and %s: %w", start, end, err)
	}
	return charges, nil
}

// ActiveFixedCharges returns the charges active on date.
func (s *Store) ActiveFixedCharges(ctx context.Context, date string) ([]Models.FixedMonthlyCharge, error) {
	charges, err := s.FixedChargesOverlapping(ctx, date, date)
	if err != nil {
		return nil, err
	}
	active := charges[:0]
	for _, charge := range charges {
		if charge.ActiveOn(date) {
			active = append(active, charge)
		}
	}
	return active, nil
}

func (s *Store) ListFixedCharges(ctx context.Context, status Models.ChargeStatus) ([]Models.FixedMonthlyCharge, error) {
	query := s.conn(ctx).Model(&Models.FixedMonthlyCharge{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var charges []Models.FixedMonthlyCharge
	if err := query.Order("status ASC, description ASC, id ASC").Find(&charges).Error; err != nil {
		return nil, fmt.Errorf("list fixed charges: %w", err)
	}
	return charges, nil
}

func (s *Store) FixedChargeByID(ctx context.Context, id uint) (Models.FixedMonthlyCharge, error) {
	var charge Models.FixedMonthlyCharge
	if err := s.conn(ctx).First(&charge, id).Error; err != nil {
		return Models.FixedMonthlyCharge{}, notFound(err, fmt.Sprintf("fixed charge %d", id))
	}
	return charge, nil
}

func (s *Store) CreateFixedCharge(ctx context.Context, charge *Models.FixedMonthlyCharge) error {
	if err := s.conn(ctx).Create(charge).Error; err != nil {
		return fmt.Errorf("create fixed charge: %w", err)
	}
	return nil
}

func (s *Store) UpdateFixedCharge(ctx context.Context, charge *Models.FixedMonthlyCharge) error {
	if err := s.conn(ctx).Save(charge).Error; err != nil {
		return fmt.Errorf("update fixed charge %d: %w", charge.ID, err)
	}
	return nil
}

func (s *Store) DeleteFixedCharge(ctx context.Context, id uint) error {
	result := s.conn(ctx).Delete(&Models.FixedMonthlyCharge{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete fixed charge %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("fixed charge %d: %w", id, ErrNotFound)
	}
	return nil
}
