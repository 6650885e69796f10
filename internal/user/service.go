package user

import (
	"fmt"
)

type Repository interface {
	GetByID(userID int64) (*User, error)
	GetByUsername(username string) (*User, error)
	ListActive(department string) ([]User, error)
	DisplayNames(userIDs []int64) (map[int64]string, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Assignable lists active users a work order can be handed to. An empty
// department means no filter.
func (s *Service) Assignable(department string) ([]User, error) {
	users, err := s.repo.ListActive(department)
	if err != nil {
		return nil, fmt.Errorf("list assignable users: %w", err)
	}
	return users, nil
}

// DisplayName resolves a single user id to a human readable name. Unknown
// ids fall back to the numeric id so log rendering never fails.
func (s *Service) DisplayName(userID int64) string {
	names, err := s.repo.DisplayNames([]int64{userID})
	if err != nil {
		return fmt.Sprintf("user-%d", userID)
	}
	if name, ok := names[userID]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("user-%d", userID)
}

// DisplayNames resolves a batch of user ids to display names.
func (s *Service) DisplayNames(userIDs []int64) (map[int64]string, error) {
	if len(userIDs) == 0 {
		return map[int64]string{}, nil
	}
	names, err := s.repo.DisplayNames(userIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve display names: %w", err)
	}
	return names, nil
}
