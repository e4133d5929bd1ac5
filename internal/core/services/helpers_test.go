package services

import (
	"strconv"

	"imc-punching/internal/adapters/persistence/models"

	"golang.org/x/crypto/bcrypt"
)

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func userFixture(id, clientID, name string, isAdmin bool) models.User {
	return models.User{ID: id, ClientID: clientID, Name: name, IsAdmin: isAdmin}
}

func hashFixture(password string) string {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(b)
}
