package users

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type UserStorage interface {
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, search string, f filters.Filters) ([]models.User, int, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Activate(ctx context.Context, id int64) error
	Delete(ctx context.Context, username string) error
}

type UserService struct {
	log     *slog.Logger
	storage UserStorage
}

func New(log *slog.Logger, storage UserStorage) *UserService {
	return &UserService{
		log:     log,
		storage: storage,
	}
}

// UpdateParams holds the editable profile fields. Nil fields are left as
// they are. Role is ignored on self edits.
type UpdateParams struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *models.Role
}

func ValidateUsername(username string) error {
	if username == models.ReservedUsername {
		return ErrReservedUsername
	}
	if !models.ValidUsernameChars(username) {
		return ErrInvalidUsername
	}
	return nil
}

// Register creates an unconfirmed user with the standard role.
func (s *UserService) Register(ctx context.Context, username, email string) (*models.User, error) {
	const op = "users.UserService.Register"
	log := s.log.With("op", op, "username", username, "email", email)
	if err := ValidateUsername(username); err != nil {
		log.Info("invalid username", "reason", err.Error())
		return nil, err
	}
	user, err := s.storage.Insert(ctx, &models.User{Username: username, Email: email, Role: models.RoleUser})
	if err != nil {
		return nil, s.mapStorageErr(log, err)
	}
	log.Info("user registered", "id", user.ID)
	return user, nil
}

// Create is the administrative counterpart of Register: any role may be
// assigned up front.
func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "users.UserService.Create"
	log := s.log.With("op", op, "username", user.Username, "email", user.Email)
	if err := ValidateUsername(user.Username); err != nil {
		log.Info("invalid username", "reason", err.Error())
		return nil, err
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if _, err := models.ParseRole(string(user.Role)); err != nil {
		return nil, ErrInvalidRole
	}
	created, err := s.storage.Insert(ctx, user)
	if err != nil {
		return nil, s.mapStorageErr(log, err)
	}
	return created, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "users.UserService.GetByID"
	log := s.log.With("op", op, "id", id)
	user, err := s.storage.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStorageErr(log, err)
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "users.UserService.GetByUsername"
	log := s.log.With("op", op, "username", username)
	user, err := s.storage.GetByUsername(ctx, username)
	if err != nil {
		return nil, s.mapStorageErr(log, err)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "users.UserService.GetByEmail"
	log := s.log.With("op", op, "email", email)
	user, err := s.storage.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.mapStorageErr(log, err)
	}
	return user, nil
}

// Role returns the role of the user with id.
func (s *UserService) Role(ctx context.Context, id int64) (models.Role, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func (s *UserService) List(ctx context.Context, search string, page int) ([]models.User, filters.Metadata, error) {
	const op = "users.UserService.List"
	log := s.log.With("op", op, "search", search, "page", page)
	f := filters.New(page)
	users, total, err := s.storage.List(ctx, search, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return users, filters.CalculateMetadata(total, f), nil
}

// Update edits the user identified by username on behalf of an admin.
func (s *UserService) Update(ctx context.Context, username string, params UpdateParams) (*models.User, error) {
	const op = "users.UserService.Update"
	log := s.log.With("op", op, "username", username)
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, log, user, params)
}

// UpdateProfile edits the caller's own profile. The role can't be changed
// this way.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, params UpdateParams) (*models.User, error) {
	const op = "users.UserService.UpdateProfile"
	log := s.log.With("op", op, "id", id)
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	params.Role = nil
	return s.update(ctx, log, user, params)
}

// SetRole assigns any role to any user; there is no ordering between roles.
func (s *UserService) SetRole(ctx context.Context, username string, role models.Role) (*models.User, error) {
	return s.Update(ctx, username, UpdateParams{Role: &role})
}

func (s *UserService) update(ctx context.Context, log *slog.Logger, user *models.User, params UpdateParams) (*models.User, error) {
	if params.Username != nil {
		if err := ValidateUsername(*params.Username); err != nil {
			log.Info("invalid username", "reason", err.Error())
			return nil, err
		}
		user.Username = *params.Username
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.FirstName != nil {
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		user.LastName = *params.LastName
	}
	if params.Bio != nil {
		user.Bio = *params.Bio
	}
	if params.Role != nil {
		if _, err := models.ParseRole(string(*params.Role)); err != nil {
			return nil, ErrInvalidRole
		}
		user.Role = *params.Role
	}
	updated, err := s.storage.Update(ctx, user)
	if err != nil {
		return nil, s.mapStorageErr(log, err)
	}
	return updated, nil
}

func (s *UserService) Activate(ctx context.Context, id int64) error {
	const op = "users.UserService.Activate"
	log := s.log.With("op", op, "id", id)
	if err := s.storage.Activate(ctx, id); err != nil {
		return s.mapStorageErr(log, err)
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	const op = "users.UserService.Delete"
	log := s.log.With("op", op, "username", username)
	if err := s.storage.Delete(ctx, username); err != nil {
		return s.mapStorageErr(log, err)
	}
	return nil
}

func (s *UserService) mapStorageErr(log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		log.Info("user not found")
		return ErrNotFound
	case storage.IsConflict(err, storage.UsernameConstraint):
		log.Info("username taken")
		return ErrUsernameTaken
	case storage.IsConflict(err, storage.EmailConstraint):
		log.Info("email taken")
		return ErrEmailTaken
	case errors.Is(err, storage.ErrConstraint):
		return ErrReservedUsername
	}
	log.Error(err.Error())
	return err
}
