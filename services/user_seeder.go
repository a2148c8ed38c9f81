package services

import (
	"strings"

	"no-homers/database"
	"no-homers/logging"
	"no-homers/models"

	"github.com/cockroachdb/errors"
)

// SeedUser is one pool member to create at startup
type SeedUser struct {
	Name  string
	Email string
	Admin bool
}

// ParseSeedUsers reads "NAME:email" entries. Names listed in admins are
// marked as administrators.
func ParseSeedUsers(entries, admins []string) ([]SeedUser, error) {
	isAdmin := make(map[string]bool, len(admins))
	for _, a := range admins {
		isAdmin[strings.ToUpper(strings.TrimSpace(a))] = true
	}

	users := make([]SeedUser, 0, len(entries))
	for _, entry := range entries {
		name, email, ok := strings.Cut(entry, ":")
		name = strings.ToUpper(strings.TrimSpace(name))
		email = strings.TrimSpace(email)
		if !ok || name == "" || email == "" {
			return nil, errors.Newf("picker entry %q must look like NAME:email", entry)
		}
		users = append(users, SeedUser{Name: name, Email: email, Admin: isAdmin[name]})
	}
	return users, nil
}

// UserSeeder handles seeding the database with initial users
type UserSeeder struct {
	userRepo database.UserRepository
}

// NewUserSeeder creates a new user seeder
func NewUserSeeder(userRepo database.UserRepository) *UserSeeder {
	return &UserSeeder{
		userRepo: userRepo,
	}
}

// SeedUsers creates any missing users with the given password. Existing
// users are left alone apart from their admin flag.
func (s *UserSeeder) SeedUsers(users []SeedUser, password string) error {
	if len(users) == 0 {
		return nil
	}
	if password == "" {
		return errors.New("a seed password is required to create pickers")
	}

	var existingCount, createdCount int
	for _, seed := range users {
		existing, err := s.userRepo.GetUserByEmail(seed.Email)
		if err == nil && existing != nil {
			existingCount++
			if existing.IsAdmin != seed.Admin {
				existing.IsAdmin = seed.Admin
				if err := s.userRepo.UpdateUser(existing); err != nil {
					logging.Errorf("Failed to update admin flag for %s: %v", seed.Email, err)
				}
			}
			continue
		}

		user := &models.User{
			Name:    seed.Name,
			Email:   seed.Email,
			IsAdmin: seed.Admin,
		}
		if err := user.HashPassword(password); err != nil {
			logging.Errorf("Failed to hash password for %s: %v", seed.Email, err)
			continue
		}
		if err := s.userRepo.CreateUser(user); err != nil {
			logging.Errorf("Failed to create user %s: %v", seed.Email, err)
			continue
		}

		logging.Infof("Created user %s (%s) with ID %d", user.Name, user.Email, user.ID)
		createdCount++
	}

	logging.Infof("Completed Seeding Users - %d existing, %d created", existingCount, createdCount)
	return nil
}

// ResetUserPasswords resets every user's password (for development)
func (s *UserSeeder) ResetUserPasswords(newPassword string) error {
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		return err
	}

	for i := range users {
		user := &users[i]
		if err := user.HashPassword(newPassword); err != nil {
			logging.Errorf("Failed to hash new password for %s: %v", user.Email, err)
			continue
		}
		if err := s.userRepo.UpdateUser(user); err != nil {
			logging.Errorf("Failed to update password for %s: %v", user.Email, err)
			continue
		}
		logging.Infof("Reset password for %s", user.Email)
	}

	logging.Infof("Password reset completed")
	return nil
}
