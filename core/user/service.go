package user

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
)

var (
	ErrNotFound    = errors.WithMessage(core.ErrNotFound, "user not found")
	ErrEmailExists = errors.New("a user with this email already exists")

	// ErrWrongPassword is returned when the old password supplied on a
	// password change does not match.
	ErrWrongPassword = errors.New("invalid old password")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id primitive.ObjectID) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// FilterUsers applies AND operation on available Filter fields.
		FilterUsers(ctx context.Context, filter Filter) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUserByID(ctx context.Context, id primitive.ObjectID) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkEmailUniqueness(ctx context.Context, email string, excluded ...User) error {
	usr, err := svc.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == core.ErrNotFound {
			return nil
		}
		return err
	}
	for _, excl := range excluded {
		if usr.ID == excl.ID {
			return nil
		}
	}
	return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
}

// Create registers a new user. Admins created through direct registration
// await super admin approval; all other roles are approved immediately.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := svc.checkEmailUniqueness(ctx, nu.Email); err != nil {
		return User{}, err
	}

	status := StatusApproved
	if nu.Role == RoleAdmin {
		status = StatusPendingApproval
	}

	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		NGOID:     nu.NGOID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id primitive.ObjectID) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// UpdateProfile applies the user's own edits; blank fields keep current values.
func (svc *Service) UpdateProfile(ctx context.Context, usr User, up UpdateProfile) (User, error) {
	if up.Email != "" && up.Email != usr.Email {
		if err := svc.checkEmailUniqueness(ctx, up.Email, usr); err != nil {
			return User{}, err
		}
		usr.Email = up.Email
	}
	if up.Name != "" {
		usr.Name = up.Name
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

// ChangePassword verifies the old password and stores a hash of the new one.
func (svc *Service) ChangePassword(ctx context.Context, usr User, cp ChangePassword) error {
	if err := usr.CheckPassword(cp.OldPassword); err != nil {
		return ErrWrongPassword
	}
	if err := usr.SetPassword(cp.NewPassword); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err := svc.repo.UpdateUser(ctx, usr)
	return err
}

// Approve marks a pending admin account as approved (super admin operation).
func (svc *Service) Approve(ctx context.Context, id primitive.ObjectID) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	usr.Status = StatusApproved
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

// Members returns the staff and volunteers of the actor's NGO.
func (svc *Service) Members(ctx context.Context, actor User) ([]User, error) {
	if !actor.HasNGO() {
		return nil, core.NewValidationError(errors.New("user is not linked to any NGO"))
	}
	return svc.repo.FilterUsers(ctx, Filter{NGOID: actor.NGOID, Roles: MemberRoles})
}

func (svc *Service) getMember(ctx context.Context, actor User, id primitive.ObjectID) (User, error) {
	member, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if member.NGOID != actor.NGOID {
		return User{}, errors.WithMessage(core.ErrPermissionDenied, "member does not belong to your NGO")
	}
	return member, nil
}

// UpdateMember applies an admin's edits to a member of their own NGO.
func (svc *Service) UpdateMember(ctx context.Context, actor User, id primitive.ObjectID, um UpdateMember) (User, error) {
	member, err := svc.getMember(ctx, actor, id)
	if err != nil {
		return User{}, err
	}

	if um.Email != "" && um.Email != member.Email {
		if err = svc.checkEmailUniqueness(ctx, um.Email, member); err != nil {
			return User{}, err
		}
		member.Email = um.Email
	}
	if um.Name != "" {
		member.Name = um.Name
	}
	if um.Role != "" {
		member.Role = um.Role
	}
	member.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, member)
}

// DeleteMember removes a member of the actor's NGO.
func (svc *Service) DeleteMember(ctx context.Context, actor User, id primitive.ObjectID) error {
	member, err := svc.getMember(ctx, actor, id)
	if err != nil {
		return err
	}
	return svc.repo.DeleteUserByID(ctx, member.ID)
}
