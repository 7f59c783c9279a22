package impl

import (
	"context"
	"log/slog"

	deliverycontext "ratehub/internal/delivery/context"
	"ratehub/internal/domain/access"
	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/repository"
	"ratehub/internal/domain/service"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(
	txManager repository.TransactionManager,
	userRepo repository.UserRepository,
	hasher service.PasswordHasher,
	tokenService service.TokenService,
	logger *slog.Logger,
) usecase.UserUsecase {
	return &userService{
		txManager:    txManager,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete user registration process.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.Any("role", input.Role), slog.String("email", input.Email))

	if input.Role != entity.RoleUser && input.Role != entity.RoleOwner {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "role must be user or owner")
	}

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "password does not meet security requirements")
	}

	// Hash outside the transaction (bcrypt is CPU-bound).
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Address:      input.Address,
		Role:         input.Role,
	}

	err = srv.txManager.Execute(ctx, func(txRepos repository.RepositoryFactory) error {
		userRepo := txRepos.UserRepo()

		_, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return errors.Wrap(domainerrors.ErrDuplicateEmail, "email already registered")
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check email uniqueness")
		}

		// The unique index on email arbitrates concurrent registrations; the
		// repository maps that violation to the same duplicate email error.
		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create user during registration")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	token, err := srv.tokenService.GenerateToken(newUser.ID, newUser.Role.String())
	if err != nil {
		srv.log(ctx).Error("Failed to generate token after registration", slog.Any("userID", newUser.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate token after registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID), slog.Any("role", newUser.Role))

	return &usecase.AuthOutput{User: newUser, Token: token}, nil
}

// Login verifies the credential and issues an access token.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Unknown email and wrong password must be indistinguishable.
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		srv.log(ctx).Error("Failed to load user for login", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	token, err := srv.tokenService.GenerateToken(user.ID, user.Role.String())
	if err != nil {
		srv.log(ctx).Error("Failed to generate token during login", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate token")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{User: user, Token: token}, nil
}

// GetUser retrieves a user, enforcing that non-admins only read themselves.
func (srv *userService) GetUser(ctx context.Context, id uuid.UUID, actor *entity.User) (*entity.User, error) {
	if decision := access.Authorize(actor, access.ActionUserRead, access.Target{UserID: id}); decision.Denied() {
		return nil, denyError(decision)
	}

	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "get user failed")
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user, nil
}

// ListUsers retrieves every user. Admin only.
func (srv *userService) ListUsers(ctx context.Context, actor *entity.User) ([]*entity.User, error) {
	if decision := access.Authorize(actor, access.ActionUserList, access.Target{}); decision.Denied() {
		return nil, denyError(decision)
	}

	users, err := srv.userRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list users", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// UpdateUser applies a patch to a user record.
func (srv *userService) UpdateUser(ctx context.Context, id uuid.UUID, input *usecase.UpdateUserInput, actor *entity.User) (*entity.User, error) {
	srv.log(ctx).Info("Starting user update", slog.Any("userID", id))

	if decision := access.Authorize(actor, access.ActionUserUpdate, access.Target{UserID: id}); decision.Denied() {
		return nil, denyError(decision)
	}

	// Identity and role changes stay with administrators even on one's own record.
	if !actor.IsAdmin() && (input.Email != nil || input.Role != nil) {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "only an administrator may change email or role")
	}

	if input.Role != nil && !input.Role.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown role")
	}

	var hashedPassword string
	if input.Password != nil {
		if err := srv.hasher.ValidatePasswordStrength(*input.Password); err != nil {
			return nil, errors.Wrap(err, "password does not meet security requirements")
		}

		var err error
		hashedPassword, err = srv.hasher.Hash(*input.Password)
		if err != nil {
			return nil, errors.Wrap(err, "failed to hash password during update")
		}
	}

	var updatedUser *entity.User
	err := srv.txManager.Execute(ctx, func(txRepos repository.RepositoryFactory) error {
		userRepo := txRepos.UserRepo()

		user, findErr := userRepo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "update user failed")
			}

			return errors.Wrap(findErr, "failed to find user by id")
		}

		if input.Email != nil && *input.Email != user.Email {
			if _, emailErr := userRepo.FindByEmail(ctx, *input.Email); emailErr == nil {
				return errors.Wrap(domainerrors.ErrDuplicateEmail, "email already registered")
			} else if !errors.Is(emailErr, repository.ErrUserNotFound) {
				return errors.Wrap(emailErr, "failed to check email uniqueness")
			}
			user.Email = *input.Email
		}
		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Address != nil {
			user.Address = input.Address
		}
		if input.Role != nil {
			user.Role = *input.Role
		}
		if input.Password != nil {
			user.PasswordHash = hashedPassword
		}

		if updateErr := userRepo.Update(ctx, user); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update user")
		}

		updatedUser = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute user update transaction", slog.Any("userID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user update transaction")
	}

	srv.log(ctx).Debug("User updated", slog.Any("userID", id))

	return updatedUser, nil
}

// DeleteUser removes a user. Admin only.
func (srv *userService) DeleteUser(ctx context.Context, id uuid.UUID, actor *entity.User) error {
	srv.log(ctx).Info("Starting user deletion", slog.Any("userID", id))

	if decision := access.Authorize(actor, access.ActionUserDelete, access.Target{UserID: id}); decision.Denied() {
		return denyError(decision)
	}

	// Foreign keys take care of the fallout: owned stores go with their
	// ratings, ratings the user authored elsewhere keep their value with the
	// rater reference cleared, so store averages are unaffected.
	if err := srv.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrUserNotFound, "delete user failed")
		}

		srv.log(ctx).Error("Failed to delete user", slog.Any("userID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete user")
	}

	srv.log(ctx).Debug("User deleted", slog.Any("userID", id))

	return nil
}
