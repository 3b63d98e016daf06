package service

import (
	"context"
	"errors"

	"libraryhub/internal/api/models"
	"libraryhub/internal/api/repository"
	"libraryhub/internal/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// Group is a role bucket with its member count, the read model behind
// GET /groups.
type Group struct {
	Name  string `json:"name"`
	Users int64  `json:"users"`
}

type MemberService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListMembers(ctx context.Context) ([]models.User, error)
	ListGroups(ctx context.Context) ([]Group, error)
	EnsureAdmin(ctx context.Context, username, email, password string) error
}

type memberService struct {
	userRepo repository.UserRepository
}

func NewMemberService(userRepo repository.UserRepository) MemberService {
	return &memberService{userRepo: userRepo}
}

func (s *memberService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListMembers returns only users holding the MEMBER role.
func (s *memberService) ListMembers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.FindByRole(ctx, models.RoleMember)
}

// ListGroups returns both role groups with their member counts, including
// empty ones.
func (s *memberService) ListGroups(ctx context.Context) ([]Group, error) {
	counts, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	return []Group{
		{Name: models.RoleAdmin, Users: counts[models.RoleAdmin]},
		{Name: models.RoleMember, Users: counts[models.RoleMember]},
	}, nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
// Called once at startup; a no-op when the username is already taken.
func (s *memberService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleAdmin,
	}
	if err := s.userRepo.Create(admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}
