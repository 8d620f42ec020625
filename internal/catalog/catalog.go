// Package catalog serves read-only event reference data from a JSON file.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"venti-agent/internal/domain"
)

type Repository interface {
	All() []domain.CatalogEvent
	ByID(id string) (domain.CatalogEvent, bool)
	ByIDs(ids []string) []domain.CatalogEvent
	ByTags(tags []string) []domain.CatalogEvent
	ByCity(city string) []domain.CatalogEvent
}

type FileRepository struct {
	path string
	mu   sync.RWMutex

	events []domain.CatalogEvent
}

func NewFileRepository(path string) (*FileRepository, error) {
	r := &FileRepository{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the backing file and swaps the snapshot atomically.
// Callers holding a slice from All keep their old snapshot.
func (r *FileRepository) Reload() error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("open events file: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	var events []domain.CatalogEvent
	if err := json.NewDecoder(f).Decode(&events); err != nil {
		return fmt.Errorf("decode events file: %w", err)
	}

	r.mu.Lock()
	r.events = events
	r.mu.Unlock()
	return nil
}

func (r *FileRepository) All() []domain.CatalogEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CatalogEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *FileRepository) ByID(id string) (domain.CatalogEvent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.events {
		if e.ID == id {
			return e, true
		}
	}
	return domain.CatalogEvent{}, false
}

func (r *FileRepository) ByIDs(ids []string) []domain.CatalogEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.CatalogEvent
	for _, e := range r.events {
		for _, id := range ids {
			if e.ID == id {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func (r *FileRepository) ByTags(tags []string) []domain.CatalogEvent {
	lower := make([]string, len(tags))
	for i, t := range tags {
		lower[i] = strings.ToLower(t)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.CatalogEvent
	for _, e := range r.events {
		for _, tag := range e.Tags {
			if containsString(lower, strings.ToLower(tag)) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func (r *FileRepository) ByCity(city string) []domain.CatalogEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.CatalogEvent
	for _, e := range r.events {
		if strings.EqualFold(e.Location.City, city) {
			out = append(out, e)
		}
	}
	return out
}

func containsString(hay []string, needle string) bool {
	for _, s := range hay {
		if s == needle {
			return true
		}
	}
	return false
}
