package service

import (
	"context"
	"sort"
	"strings"

	"codebox/internal/entity"
	"codebox/internal/repository"
)

type SnippetService struct {
	snippets repository.SnippetRepository
	users    repository.UserRepository
}

func NewSnippetService(snippets repository.SnippetRepository, users repository.UserRepository) *SnippetService {
	return &SnippetService{snippets: snippets, users: users}
}

func (s *SnippetService) Create(ctx context.Context, input CreateSnippetInput) (*entity.Snippet, error) {
	snippet := &entity.Snippet{
		Code:          input.Code,
		CodeLanguage:  input.CodeLanguage,
		Title:         input.Title,
		Description:   input.Description,
		OwnerUsername: input.OwnerUsername,
	}
	if owner := strings.TrimSpace(input.OwnerUserID); owner != "" {
		snippet.OwnerUserID = &owner
	}
	if err := s.snippets.Create(ctx, snippet); err != nil {
		return nil, err
	}
	return snippet, nil
}

func (s *SnippetService) List(ctx context.Context, activeOnly bool) ([]entity.Snippet, error) {
	return s.snippets.List(ctx, !activeOnly)
}

// ListGroupedByOwner groups snippets in the requested deletion state by their
// owner's current username. Snippets whose owner is soft-deleted or missing
// are left out whichever state was requested. Groups are ordered by username
// and each group by most recent update first.
func (s *SnippetService) ListGroupedByOwner(ctx context.Context, activeOnly bool) ([]SnippetGroup, error) {
	snippets, err := s.snippets.List(ctx, !activeOnly)
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]string, 0, len(snippets))
	seen := make(map[string]struct{}, len(snippets))
	for _, snippet := range snippets {
		if snippet.OwnerUserID == nil {
			continue
		}
		if _, ok := seen[*snippet.OwnerUserID]; ok {
			continue
		}
		seen[*snippet.OwnerUserID] = struct{}{}
		ownerIDs = append(ownerIDs, *snippet.OwnerUserID)
	}
	owners, err := s.users.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	ownersByID := make(map[string]entity.User, len(owners))
	for _, owner := range owners {
		ownersByID[owner.ID] = owner
	}

	grouped := make(map[string][]entity.Snippet)
	for _, snippet := range snippets {
		if snippet.OwnerUserID == nil {
			continue
		}
		owner, ok := ownersByID[*snippet.OwnerUserID]
		if !ok || owner.IsDeleted {
			continue
		}
		grouped[owner.Username] = append(grouped[owner.Username], snippet)
	}

	usernames := make([]string, 0, len(grouped))
	for username := range grouped {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	groups := make([]SnippetGroup, 0, len(usernames))
	for _, username := range usernames {
		items := grouped[username]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		})
		groups = append(groups, SnippetGroup{Username: username, Snippets: items})
	}
	return groups, nil
}

// GetByID returns nil without error when the snippet does not exist.
func (s *SnippetService) GetByID(ctx context.Context, id string) (*entity.Snippet, error) {
	return s.snippets.FindByID(ctx, id)
}

func (s *SnippetService) ListByOwner(ctx context.Context, ownerID string, activeOnly bool, newestFirst bool) ([]entity.Snippet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrMissingID
	}
	return s.snippets.ListByOwner(ctx, ownerID, !activeOnly, newestFirst)
}

func (s *SnippetService) Update(ctx context.Context, id string, update entity.SnippetUpdate) (*entity.Snippet, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingID
	}
	snippet, err := s.snippets.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if snippet == nil {
		return nil, ErrSnippetNotFound
	}
	return snippet, nil
}

// SoftDelete and Revert return nil without error for an unknown id.
func (s *SnippetService) SoftDelete(ctx context.Context, id string) (*entity.Snippet, error) {
	return s.snippets.SetDeleted(ctx, id, true)
}

func (s *SnippetService) Revert(ctx context.Context, id string) (*entity.Snippet, error) {
	return s.snippets.SetDeleted(ctx, id, false)
}
