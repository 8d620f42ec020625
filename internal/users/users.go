// Package users resolves user profiles from a JSON file.
package users

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"venti-agent/internal/domain"
)

type ProfileSource interface {
	Get(userID string) (domain.Profile, bool)
}

type FileRepository struct {
	mu    sync.RWMutex
	users []domain.User
}

func NewFileRepository(path string) (*FileRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open users file: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	var users []domain.User
	if err := json.NewDecoder(f).Decode(&users); err != nil {
		return nil, fmt.Errorf("decode users file: %w", err)
	}
	return &FileRepository{users: users}, nil
}

func (r *FileRepository) Get(userID string) (domain.Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == userID {
			return domain.Profile{
				Name:        u.Name,
				Location:    u.Location,
				Preferences: u.Preferences,
			}, true
		}
	}
	return domain.Profile{}, false
}

func (r *FileRepository) FindByEmail(email string) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}
