package services

import (
	"wa_gateway/internal/models"

	"gorm.io/gorm"
)

// ContactProfile is what the messaging network knows about a sender.
type ContactProfile struct {
	Name       string
	IsBusiness bool
}

// CustomerService owns the customers table.
type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// FindOrCreateByNumber returns the customer for a phone number, creating the
// row on first contact. New customers subscribe by default and take their
// name from the contact profile, falling back to "-".
func (s *CustomerService) FindOrCreateByNumber(number string, profile ContactProfile) (*models.Customer, error) {
	name := profile.Name
	if name == "" {
		name = "-"
	}

	var customer models.Customer
	err := s.db.Where(models.Customer{Number: number}).
		Attrs(models.Customer{
			Name:        name,
			IsBusiness:  profile.IsBusiness,
			IsSubscribe: true,
		}).
		FirstOrCreate(&customer).Error
	if err != nil {
		// The unique index on number can reject a concurrent create; the row
		// exists in that case, so look it up again.
		var existing models.Customer
		if retryErr := s.db.Where("number = ?", number).First(&existing).Error; retryErr == nil {
			return &existing, nil
		}
		return nil, err
	}

	return &customer, nil
}

// SetSubscription flips the subscribe flag for a customer.
func (s *CustomerService) SetSubscription(customerID string, subscribed bool) error {
	return s.db.Model(&models.Customer{}).
		Where("id = ?", customerID).
		Update("is_subscribe", subscribed).Error
}

// Subscribed returns every customer that still wants promo messages.
func (s *CustomerService) Subscribed() ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.Where("is_subscribe = ?", true).Find(&customers).Error
	return customers, err
}
