package config

import (
	"errors"
	"log"

	"imc-punching/internal/adapters/persistence/models"
	"imc-punching/internal/pkg/password"

	"gorm.io/gorm"
)

// Development accounts. Never seeded in prod mode.
const (
	devClientID      = "IMC001"
	devAdminPassword = "admin123456"
	devFieldPassword = "field123456"
)

// SeedDevData seeds accounts and customers for local development
func SeedDevData(db *gorm.DB) error {
	log.Println("🌱 Running database seeders...")

	if err := seedUsers(db); err != nil {
		return err
	}
	if err := seedCustomers(db); err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

func seedUsers(db *gorm.DB) error {
	users := []struct {
		user     models.User
		password string
	}{
		{models.User{ID: "admin", ClientID: devClientID, IsAdmin: true, Name: "Dev Admin"}, devAdminPassword},
		{models.User{ID: "field1", ClientID: devClientID, Name: "Field Agent"}, devFieldPassword},
	}

	for _, u := range users {
		var existing models.User
		err := db.Where("id = ?", u.user.ID).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(u.password)
		if err != nil {
			return err
		}
		u.user.Password = hashed
		if err := db.Create(&u.user).Error; err != nil {
			return err
		}
		log.Printf("   Created user: %s (admin=%t)", u.user.ID, u.user.IsAdmin)
	}
	return nil
}

func seedCustomers(db *gorm.DB) error {
	for _, name := range []string{"Acme Traders", "Globex Pharma"} {
		var existing models.Customer
		err := db.Where("client_id = ? AND name = ?", devClientID, name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := db.Create(&models.Customer{Name: name, ClientID: devClientID}).Error; err != nil {
			return err
		}
		log.Printf("   Created customer: %s", name)
	}
	return nil
}
