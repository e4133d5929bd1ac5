package repositories

import (
	"context"

	"imc-punching/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// customerRepository implements CustomerRepository interface
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// ListByClient lists customer names for a tenant
func (r *customerRepository) ListByClient(ctx context.Context, clientID string) ([]*models.Customer, error) {
	var customers []*models.Customer
	err := r.db.WithContext(ctx).
		Select("name").
		Where("client_id = ?", clientID).
		Order("name ASC").
		Find(&customers).Error
	return customers, err
}
