package permission

import (
	"log/slog"

	"github.com/frahmantamala/workorder-management/internal"
)

// Service owns runtime mutation of the department registry. Reads go through
// the resolver; all writes funnel through here so the single-writer
// discipline lives in one place.
type Service struct {
	registry Registry
	logger   *slog.Logger
}

func NewService(registry Registry, logger *slog.Logger) *Service {
	return &Service{
		registry: registry,
		logger:   logger,
	}
}

func (s *Service) Departments() []Profile {
	return s.registry.List()
}

func (s *Service) Department(name string) (Profile, error) {
	p, ok := s.registry.Profile(name)
	if !ok {
		return Profile{}, internal.ErrDepartmentNotFound
	}
	return p, nil
}

func (s *Service) CreateDepartment(dto DepartmentDTO) (Profile, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("department validation failed", "error", err, "department", dto.Name)
		return Profile{}, err
	}

	if _, ok := s.registry.Profile(dto.Name); ok {
		return Profile{}, internal.ErrDepartmentExists
	}

	p := Profile{
		Name:        dto.Name,
		Description: dto.Description,
		Color:       dto.Color,
		Pages:       dto.Pages,
		Buttons:     dto.Buttons,
		Roles:       dto.Roles,
	}
	if p.Color == "" {
		p.Color = "#757575"
	}

	if err := s.registry.Put(p); err != nil {
		return Profile{}, err
	}

	s.logger.Info("custom department created", "department", p.Name, "pages", len(p.Pages), "buttons", len(p.Buttons))
	created, _ := s.registry.Profile(p.Name)
	return created, nil
}

func (s *Service) UpdateDepartment(name string, dto DepartmentDTO) (Profile, error) {
	dto.Name = name
	if err := dto.Validate(); err != nil {
		s.logger.Error("department validation failed", "error", err, "department", name)
		return Profile{}, err
	}

	existing, ok := s.registry.Profile(name)
	if !ok {
		return Profile{}, internal.ErrDepartmentNotFound
	}

	existing.Description = dto.Description
	existing.Color = dto.Color
	existing.Pages = dto.Pages
	existing.Buttons = dto.Buttons
	existing.Roles = dto.Roles

	if err := s.registry.Put(existing); err != nil {
		return Profile{}, err
	}

	s.logger.Info("department updated", "department", name)
	updated, _ := s.registry.Profile(name)
	return updated, nil
}

func (s *Service) DeleteDepartment(name string) error {
	if err := s.registry.Delete(name); err != nil {
		s.logger.Warn("department delete refused", "error", err, "department", name)
		return err
	}
	s.logger.Info("custom department deleted", "department", name)
	return nil
}
