package alias

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

var ErrEmptyName = errors.New("alias raw name and canonical code are required")

// Alias maps an object name as it appears in workbooks to the canonical code
// stored with plan rows.
type Alias struct {
	RawName   string
	Canonical string
	CreatedAt time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=alias
type Repository interface {
	FindCanonical(ctx context.Context, rawName string) (string, error)
	CreateAlias(ctx context.Context, rawName, canonical string) error
	ListAliases(ctx context.Context) ([]Alias, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the canonical code for a raw object name, or an empty string
// when no alias is known.
func (s *Service) Suggest(ctx context.Context, rawName string) (string, error) {
	return s.repo.FindCanonical(ctx, strings.TrimSpace(rawName))
}

// Learn remembers a mapping from a raw object name to a canonical code.
func (s *Service) Learn(ctx context.Context, rawName, canonical string) error {
	rawName, canonical = strings.TrimSpace(rawName), strings.TrimSpace(canonical)
	if rawName == "" || canonical == "" {
		return ErrEmptyName
	}

	return s.repo.CreateAlias(ctx, rawName, canonical)
}

func (s *Service) List(ctx context.Context) ([]Alias, error) {
	return s.repo.ListAliases(ctx)
}

// Resolve rewrites the object of every row that has a known alias and returns
// how many rows changed. Each distinct name is looked up once.
func (s *Service) Resolve(ctx context.Context, rows []plan.Row) (int, error) {
	known := make(map[string]string)
	changed := 0

	for i := range rows {
		raw := rows[i].Object
		if raw == "" {
			continue
		}

		canonical, seen := known[raw]
		if !seen {
			var err error

			canonical, err = s.Suggest(ctx, raw)
			if err != nil {
				return changed, fmt.Errorf("resolving object %q: %w", raw, err)
			}

			known[raw] = canonical
		}

		if canonical == "" || canonical == raw {
			continue
		}

		rows[i].Object = canonical
		changed++
	}

	return changed, nil
}
