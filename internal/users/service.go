// Package users exposes the user-management procedures. Everything except
// GetRole is delegated to the auth service.
package users

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/suyash01/expensehub/internal/apperr"
	"github.com/suyash01/expensehub/internal/auth"
	"github.com/suyash01/expensehub/internal/models"
)

const (
	listLimit        = 100
	defaultBanReason = "No reason provided"
)

type AssignRoleInput struct {
	UserID   string      `json:"userId" validate:"required"`
	RoleName models.Role `json:"roleName" validate:"oneof=admin user"`
}

type BanInput struct {
	UserID    string `json:"userId" validate:"required"`
	BanReason string `json:"banReason"`
}

type UnbanInput struct {
	UserID string `json:"userId" validate:"required"`
}

// Result is the acknowledgement returned by the admin mutations.
type Result struct {
	Success bool `json:"success"`
}

type Service struct {
	gateway  auth.Gateway
	validate *validator.Validate
	log      *zap.Logger
}

func NewService(gateway auth.Gateway, log *zap.Logger) *Service {
	return &Service{
		gateway:  gateway,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.Named("users"),
	}
}

// GetRole returns the caller's role, "user" when none is set.
func (s *Service) GetRole(c auth.Caller) models.Role {
	if c.Role == "" {
		return models.RoleUser
	}
	return c.Role
}

func (s *Service) GetAll(ctx context.Context, header http.Header) ([]models.User, error) {
	list, err := s.gateway.ListUsers(ctx, header, listLimit)
	if err != nil {
		s.log.Error("list_users_failed", zap.Error(err))
		return nil, apperr.Internal("Failed to fetch users", err)
	}
	return list, nil
}

func (s *Service) AssignRole(ctx context.Context, header http.Header, in AssignRoleInput) (Result, error) {
	if err := s.check(in); err != nil {
		return Result{}, err
	}
	if err := s.gateway.SetRole(ctx, header, in.UserID, in.RoleName); err != nil {
		s.log.Error("assign_role_failed", zap.String("user_id", in.UserID), zap.String("role", string(in.RoleName)), zap.Error(err))
		return Result{}, apperr.BadRequestWrap("Failed to assign role", err)
	}
	s.log.Info("role_assigned", zap.String("user_id", in.UserID), zap.String("role", string(in.RoleName)))
	return Result{Success: true}, nil
}

func (s *Service) BanUser(ctx context.Context, header http.Header, in BanInput) (Result, error) {
	if err := s.check(in); err != nil {
		return Result{}, err
	}
	reason := in.BanReason
	if reason == "" {
		reason = defaultBanReason
	}
	if err := s.gateway.BanUser(ctx, header, in.UserID, reason); err != nil {
		s.log.Error("ban_user_failed", zap.String("user_id", in.UserID), zap.Error(err))
		return Result{}, apperr.BadRequestWrap("Failed to ban user", err)
	}
	s.log.Info("user_banned", zap.String("user_id", in.UserID))
	return Result{Success: true}, nil
}

func (s *Service) UnbanUser(ctx context.Context, header http.Header, in UnbanInput) (Result, error) {
	if err := s.check(in); err != nil {
		return Result{}, err
	}
	if err := s.gateway.UnbanUser(ctx, header, in.UserID); err != nil {
		s.log.Error("unban_user_failed", zap.String("user_id", in.UserID), zap.Error(err))
		return Result{}, apperr.BadRequestWrap("Failed to unban user", err)
	}
	s.log.Info("user_unbanned", zap.String("user_id", in.UserID))
	return Result{Success: true}, nil
}

func (s *Service) check(in any) error {
	if err := s.validate.Struct(in); err != nil {
		return apperr.BadRequestWrap("Invalid input", err)
	}
	return nil
}
