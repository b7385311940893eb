package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rewards/internal/domain/entity"
	"rewards/internal/domain/repository"
	"rewards/internal/domain/service"
	"rewards/internal/errors"
	"rewards/internal/usecase"
	"rewards/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type userService struct {
	router  repository.StoreRouter
	journal journal
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	Router repository.StoreRouter
	Bus    service.SignalBus
	Logger *slog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		router:  params.Router,
		journal: newJournal(params.Bus, params.Logger),
	}
}

func (s *userService) ListUsers(ctx context.Context, filter usecase.UserFilter) ([]*entity.User, error) {
	users, err := s.router.Active(ctx).Users().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	result := make([]*entity.User, 0, len(users))
	for _, u := range users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.SponsorID != "" && u.SponsorID != filter.SponsorID {
			continue
		}
		if u.Dropped && !filter.IncludeDropped {
			continue
		}
		result = append(result, u)
	}

	return result, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.router.Active(ctx).Users().FindByID(ctx, id)

	return user, errors.Wrap(err, "failed to find user")
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.router.Active(ctx).Users().FindByUsername(ctx, username)

	return user, errors.Wrap(err, "failed to find user by username")
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.router.Active(ctx).Users().FindByEmail(ctx, email)

	return user, errors.Wrap(err, "failed to find user by email")
}

// CreateProfile registers a new profile after the uniqueness checks pass.
func (s *userService) CreateProfile(ctx context.Context, input usecase.CreateProfileInput) (entity.Result[*entity.User], error) {
	return createProfile(ctx, s.router.Active(ctx), input)
}

// createProfile is shared with the auth facade, which creates profiles on sign-up.
func createProfile(ctx context.Context, store repository.Store, input usecase.CreateProfileInput) (entity.Result[*entity.User], error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return entity.Fail[*entity.User](entity.CodeInvalidInput, "Username is required"), nil
	}

	role := input.Role
	if role == "" {
		role = entity.RoleDriver
	}
	if !role.IsValid() {
		return entity.Fail[*entity.User](entity.CodeInvalidRole, fmt.Sprintf("Unknown role %q", input.Role)), nil
	}

	users := store.Users()

	existing, err := users.FindByUsername(ctx, username)
	if err != nil {
		return entity.Result[*entity.User]{}, errors.Wrap(err, "failed to check username")
	}
	if existing != nil {
		return entity.Fail[*entity.User](entity.CodeUsernameTaken, fmt.Sprintf("Username %q is already taken", username)), nil
	}

	if email := strings.TrimSpace(input.Email); email != "" {
		existing, err = users.FindByEmail(ctx, email)
		if err != nil {
			return entity.Result[*entity.User]{}, errors.Wrap(err, "failed to check email")
		}
		if existing != nil {
			return entity.Fail[*entity.User](entity.CodeEmailTaken, fmt.Sprintf("Email %q is already registered", email)), nil
		}
	}

	id := input.ID
	if id == "" {
		id = "u-" + uuid.NewString()
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = username
	}

	user := &entity.User{
		ID:          id,
		Username:    username,
		Role:        role,
		DisplayName: displayName,
		Email:       strings.TrimSpace(input.Email),
		Phone:       input.Phone,
		Address:     input.Address,
		SponsorID:   input.SponsorID,
		Preferences: &entity.Preferences{PointsAlerts: true, OrderAlerts: true, EmailAlerts: true},
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if role == entity.RoleDriver && input.SponsorID != "" {
		user.Points = util.Ptr(0)
	}

	if err := users.Create(ctx, user); err != nil {
		return entity.Result[*entity.User]{}, errors.Wrap(err, "failed to create user")
	}

	return entity.Ok(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, patch usecase.ProfilePatch) (entity.Result[*entity.User], error) {
	users := s.router.Active(ctx).Users()

	user, err := users.FindByID(ctx, id)
	if err != nil {
		return entity.Result[*entity.User]{}, errors.Wrap(err, "failed to find user")
	}
	if user == nil {
		return entity.Fail[*entity.User](entity.CodeUserNotFound, "User not found"), nil
	}

	if patch.Email != nil && !strings.EqualFold(strings.TrimSpace(*patch.Email), user.Email) {
		other, err := users.FindByEmail(ctx, *patch.Email)
		if err != nil {
			return entity.Result[*entity.User]{}, errors.Wrap(err, "failed to check email")
		}
		if other != nil && other.ID != user.ID {
			return entity.Fail[*entity.User](entity.CodeEmailTaken, fmt.Sprintf("Email %q is already registered", *patch.Email)), nil
		}
		user.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.DisplayName != nil {
		user.DisplayName = *patch.DisplayName
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Address != nil {
		user.Address = *patch.Address
	}

	if err := users.Update(ctx, user); err != nil {
		return entity.Result[*entity.User]{}, errors.Wrap(err, "failed to update user")
	}

	return entity.Ok(user), nil
}

func (s *userService) UpdatePreferences(ctx context.Context, id string, prefs entity.Preferences) (entity.Result[*entity.User], error) {
	users := s.router.Active(ctx).Users()

	user, err := users.FindByID(ctx, id)
	if err != nil {
		return entity.Result[*entity.User]{}, errors.Wrap(err, "failed to find user")
	}
	if user == nil {
		return entity.Fail[*entity.User](entity.CodeUserNotFound, "User not found"), nil
	}

	user.Preferences = &prefs
	if err := users.Update(ctx, user); err != nil {
		return entity.Result[*entity.User]{}, errors.Wrap(err, "failed to update preferences")
	}

	return entity.Ok(user), nil
}

func (s *userService) DropDriver(ctx context.Context, userID, actor string) (entity.Result[*entity.User], error) {
	store := s.router.Active(ctx)

	user, err := store.Users().FindByID(ctx, userID)
	if err != nil {
		return entity.Result[*entity.User]{}, errors.Wrap(err, "failed to find user")
	}
	if user == nil || user.Role != entity.RoleDriver {
		return entity.Fail[*entity.User](entity.CodeUserNotFound, "Driver not found"), nil
	}

	user.Dropped = true
	user.Active = false
	if err := store.Users().Update(ctx, user); err != nil {
		return entity.Result[*entity.User]{}, errors.Wrap(err, "failed to drop driver")
	}

	s.journal.audit(ctx, store, actor, user.DisplayName, "Dropped driver", entity.AuditCategoryUser,
		fmt.Sprintf("Driver %s removed from sponsor %s", user.Username, user.SponsorID))

	return entity.Ok(user), nil
}

func (s *userService) SetActive(ctx context.Context, userID string, active bool, actor string) (entity.Result[*entity.User], error) {
	store := s.router.Active(ctx)

	user, err := store.Users().FindByID(ctx, userID)
	if err != nil {
		return entity.Result[*entity.User]{}, errors.Wrap(err, "failed to find user")
	}
	if user == nil {
		return entity.Fail[*entity.User](entity.CodeUserNotFound, "User not found"), nil
	}

	user.Active = active
	if err := store.Users().Update(ctx, user); err != nil {
		return entity.Result[*entity.User]{}, errors.Wrap(err, "failed to update user status")
	}

	action := "Deactivated user"
	if active {
		action = "Activated user"
	}
	s.journal.audit(ctx, store, actor, user.DisplayName, action, entity.AuditCategoryUser, "")

	return entity.Ok(user), nil
}
