// Package enrollment persists event enrollments in a JSON file.
package enrollment

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"venti-agent/internal/domain"
)

// Sink is the mutation surface the agent tools depend on.
type Sink interface {
	Enroll(userID string, eventIDs []string) (domain.Enrollment, error)
}

type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) Enroll(userID string, eventIDs []string) (domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	enrollments, err := r.loadUnlocked()
	if err != nil {
		return domain.Enrollment{}, fmt.Errorf("load enrollments: %w", err)
	}
	rec := domain.Enrollment{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventIDs:  eventIDs,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	enrollments = append(enrollments, rec)
	if err := r.saveUnlocked(enrollments); err != nil {
		return domain.Enrollment{}, fmt.Errorf("save enrollments: %w", err)
	}
	return rec, nil
}

func (r *FileRepository) ListByUser(userID string) ([]domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	enrollments, err := r.loadUnlocked()
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}
	var out []domain.Enrollment
	for _, e := range enrollments {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *FileRepository) IsEnrolled(userID, eventID string) (bool, error) {
	list, err := r.ListByUser(userID)
	if err != nil {
		return false, err
	}
	for _, e := range list {
		for _, id := range e.EventIDs {
			if id == eventID {
				return true, nil
			}
		}
	}
	return false, nil
}

// Remove drops one event from every enrollment of the user. Enrollments left
// empty are removed entirely. Returns whether anything changed.
func (r *FileRepository) Remove(userID, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	enrollments, err := r.loadUnlocked()
	if err != nil {
		return false, fmt.Errorf("load enrollments: %w", err)
	}

	modified := false
	var out []domain.Enrollment
	for _, e := range enrollments {
		if e.UserID == userID {
			var kept []string
			for _, id := range e.EventIDs {
				if id == eventID {
					modified = true
					continue
				}
				kept = append(kept, id)
			}
			e.EventIDs = kept
		}
		if len(e.EventIDs) > 0 {
			out = append(out, e)
		}
	}

	if !modified {
		return false, nil
	}
	if err := r.saveUnlocked(out); err != nil {
		return false, fmt.Errorf("save enrollments: %w", err)
	}
	return true, nil
}

func (r *FileRepository) loadUnlocked() ([]domain.Enrollment, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	var enrollments []domain.Enrollment
	if err := json.NewDecoder(f).Decode(&enrollments); err != nil {
		if err == io.EOF {
			return []domain.Enrollment{}, nil
		}
		return nil, err
	}
	return enrollments, nil
}

func (r *FileRepository) saveUnlocked(enrollments []domain.Enrollment) error {
	f, err := os.OpenFile(r.path, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(enrollments)
}
