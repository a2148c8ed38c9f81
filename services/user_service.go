package services

import (
	"no-homers/database"
	"no-homers/models"
)

// UserService lists pool members
type UserService struct {
	userRepo database.UserRepository
}

func NewUserService(userRepo database.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetAllUsers returns all users without password hashes
func (s *UserService) GetAllUsers() ([]models.User, error) {
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		return nil, err
	}
	safe := make([]models.User, 0, len(users))
	for i := range users {
		safe = append(safe, users[i].ToSafeUser())
	}
	return safe, nil
}

// Pickers returns the picker identity of every user
func (s *UserService) Pickers() ([]string, error) {
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(users))
	for i := range users {
		names = append(names, users[i].Picker())
	}
	return names, nil
}

func (s *UserService) GetUserByID(userID int) (*models.User, error) {
	return s.userRepo.GetUserByID(userID)
}
