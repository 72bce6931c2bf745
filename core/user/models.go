package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/tangakou/msaada/core"
)

// Role is the closed set of principal roles. Everything role-related is
// checked against these values; free-form role strings never enter the system.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
	RoleVolunteer  Role = "volunteer"
)

var (
	AllRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleStaff, RoleVolunteer}

	// MemberRoles are the roles an NGO admin manages and may invite.
	MemberRoles = []Role{RoleStaff, RoleVolunteer}
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleStaff, RoleVolunteer:
		return true
	}
	return false
}

// IsMember reports whether r is a role an NGO admin manages (staff/volunteer).
func (r Role) IsMember() bool {
	return r == RoleStaff || r == RoleVolunteer
}

type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash []byte             `bson:"password" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	NGOID        primitive.ObjectID `bson:"ngo_id,omitempty" json:"ngoId,omitempty"`
	Status       Status             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"` // UTC
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsSuperAdmin() bool { return u.Role == RoleSuperAdmin }
func (u *User) IsAdmin() bool      { return u.Role == RoleAdmin }
func (u *User) IsStaff() bool      { return u.Role == RoleStaff }
func (u *User) IsVolunteer() bool  { return u.Role == RoleVolunteer }

// HasNGO reports whether the user is linked to an NGO.
// The super admin never is; every tenant user must be.
func (u *User) HasNGO() bool { return !u.NGOID.IsZero() }

func (u *User) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name     string             `json:"name" validate:"required"`
	Email    string             `json:"email" validate:"required,email"`
	Password string             `json:"password" validate:"required"`
	Role     Role               `json:"role" validate:"required"`
	NGOID    primitive.ObjectID `json:"ngoId"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	if !nu.Role.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "invalid role"})
	}
	if nu.Role == RoleSuperAdmin && !nu.NGOID.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: "ngoId", Error: "a super admin cannot belong to an NGO"})
	}
	if nu.Role != RoleSuperAdmin && nu.NGOID.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: "ngoId", Error: "users must belong to an NGO"})
	}
	return nil
}

// UpdateProfile defines what a user may change on their own account.
type UpdateProfile struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.Name = core.CleanString(up.Name)
	up.Email = core.CleanString(up.Email, true /* lower */)
	return validate.Struct(up)
}

// ChangePassword carries a password change request.
type ChangePassword struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

func (cp ChangePassword) Validate(validate *validator.Validate) error {
	return validate.Struct(cp)
}

// UpdateMember defines what an admin may change on a member of their NGO.
type UpdateMember struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  Role   `json:"role"`
}

func (um *UpdateMember) Validate(validate *validator.Validate) error {
	um.Name = core.CleanString(um.Name)
	um.Email = core.CleanString(um.Email, true /* lower */)

	if err := validate.Struct(um); err != nil {
		return err
	}
	if um.Role != "" && !um.Role.IsMember() {
		return core.NewValidationError(nil,
			core.FieldError{Field: "role", Error: "invalid role for a member; allowed roles: staff, volunteer"})
	}
	return nil
}

// Filter narrows user queries. Zero fields are ignored.
type Filter struct {
	NGOID primitive.ObjectID
	Roles []Role
}
