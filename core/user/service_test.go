package user_test

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/user"
	inmemdb "github.com/tangakou/msaada/storage/inmem"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate
}

func setup(t *testing.T) (*user.Service, user.Repository) {
	t.Helper()
	repo := inmemdb.NewUserRepository(inmemdb.Open())
	return user.NewService(repo), repo
}

func createMember(t *testing.T, svc *user.Service, ngoID primitive.ObjectID, name, email string, role user.Role) user.User {
	t.Helper()
	usr, err := svc.Create(context.Background(), user.NewUser{
		Name: name, Email: email, Password: "s3cr3t-pwd", Role: role, NGOID: ngoID,
	})
	require.NoError(t, err)
	return usr
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	ngoID := primitive.NewObjectID()

	// staff/volunteers are approved immediately
	staff := createMember(t, svc, ngoID, "Asha Juma", "asha@hope.org", user.RoleStaff)
	assert.Equal(t, user.StatusApproved, staff.Status)
	assert.NoError(t, staff.CheckPassword("s3cr3t-pwd"))

	// directly registered admins await approval
	admin := createMember(t, svc, ngoID, "Jane Wanjiku", "jane@hope.org", user.RoleAdmin)
	assert.Equal(t, user.StatusPendingApproval, admin.Status)

	// duplicate email is rejected
	_, err := svc.Create(ctx, user.NewUser{
		Name: "Other", Email: "asha@hope.org", Password: "whatever1", Role: user.RoleStaff, NGOID: ngoID,
	})
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "want validation error, got %v", err)
	assert.Equal(t, user.ErrEmailExists, vErr.Err)
}

func TestService_Approve(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	admin := createMember(t, svc, primitive.NewObjectID(), "Jane Wanjiku", "jane@hope.org", user.RoleAdmin)
	require.Equal(t, user.StatusPendingApproval, admin.Status)

	got, err := svc.Approve(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, user.StatusApproved, got.Status)
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)

	usr := createMember(t, svc, primitive.NewObjectID(), "Asha Juma", "asha@hope.org", user.RoleStaff)

	err := svc.ChangePassword(ctx, usr, user.ChangePassword{OldPassword: "wrong", NewPassword: "n3w-s3cr3t"})
	assert.Equal(t, user.ErrWrongPassword, errors.Cause(err))

	err = svc.ChangePassword(ctx, usr, user.ChangePassword{OldPassword: "s3cr3t-pwd", NewPassword: "n3w-s3cr3t"})
	require.NoError(t, err)

	got, err := repo.GetUserByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.NoError(t, got.CheckPassword("n3w-s3cr3t"))
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	ngoID := primitive.NewObjectID()

	usr := createMember(t, svc, ngoID, "Asha Juma", "asha@hope.org", user.RoleStaff)
	other := createMember(t, svc, ngoID, "Ali Musa", "ali@hope.org", user.RoleVolunteer)

	// blank fields keep current values
	got, err := svc.UpdateProfile(ctx, usr, user.UpdateProfile{Name: "Asha J."})
	require.NoError(t, err)
	assert.Equal(t, "Asha J.", got.Name)
	assert.Equal(t, "asha@hope.org", got.Email)

	// cannot take another user's email
	_, err = svc.UpdateProfile(ctx, usr, user.UpdateProfile{Email: other.Email})
	_, ok := errors.Cause(err).(*core.ValidationError)
	assert.True(t, ok, "want validation error, got %v", err)
}

func TestService_Members(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	ngoID := primitive.NewObjectID()
	otherNGOID := primitive.NewObjectID()

	admin := createMember(t, svc, ngoID, "Jane Wanjiku", "jane@hope.org", user.RoleAdmin)
	staff := createMember(t, svc, ngoID, "Asha Juma", "asha@hope.org", user.RoleStaff)
	volunteer := createMember(t, svc, ngoID, "Ali Musa", "ali@hope.org", user.RoleVolunteer)
	outsider := createMember(t, svc, otherNGOID, "Omar Said", "omar@foodaid.org", user.RoleStaff)

	members, err := svc.Members(ctx, admin)
	require.NoError(t, err)
	require.Len(t, members, 2)
	ids := []primitive.ObjectID{members[0].ID, members[1].ID}
	assert.ElementsMatch(t, ids, []primitive.ObjectID{staff.ID, volunteer.ID})

	// admins themselves are not members; outsiders never appear
	for _, m := range members {
		assert.NotEqual(t, admin.ID, m.ID)
		assert.NotEqual(t, outsider.ID, m.ID)
	}
}

func TestService_UpdateMember(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	ngoID := primitive.NewObjectID()

	admin := createMember(t, svc, ngoID, "Jane Wanjiku", "jane@hope.org", user.RoleAdmin)
	staff := createMember(t, svc, ngoID, "Asha Juma", "asha@hope.org", user.RoleStaff)
	outsider := createMember(t, svc, primitive.NewObjectID(), "Omar Said", "omar@foodaid.org", user.RoleStaff)

	got, err := svc.UpdateMember(ctx, admin, staff.ID, user.UpdateMember{Role: user.RoleVolunteer})
	require.NoError(t, err)
	assert.Equal(t, user.RoleVolunteer, got.Role)

	// tenant mismatch is a denial
	_, err = svc.UpdateMember(ctx, admin, outsider.ID, user.UpdateMember{Name: "Hax"})
	assert.Equal(t, core.ErrPermissionDenied, errors.Cause(err))

	// unknown id is a miss
	_, err = svc.UpdateMember(ctx, admin, primitive.NewObjectID(), user.UpdateMember{Name: "Hax"})
	assert.Equal(t, core.ErrNotFound, errors.Cause(err))
}

func TestService_DeleteMember(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)
	ngoID := primitive.NewObjectID()

	admin := createMember(t, svc, ngoID, "Jane Wanjiku", "jane@hope.org", user.RoleAdmin)
	staff := createMember(t, svc, ngoID, "Asha Juma", "asha@hope.org", user.RoleStaff)
	outsider := createMember(t, svc, primitive.NewObjectID(), "Omar Said", "omar@foodaid.org", user.RoleStaff)

	require.Error(t, svc.DeleteMember(ctx, admin, outsider.ID))
	require.NoError(t, svc.DeleteMember(ctx, admin, staff.ID))

	_, err := repo.GetUserByID(ctx, staff.ID)
	assert.Equal(t, core.ErrNotFound, errors.Cause(err))
}

func TestNewUser_Validate_roleAndTenantRules(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name    string
		nu      user.NewUser
		wantErr bool
	}{
		{"valid staff", user.NewUser{Name: "A", Email: "a@b.org", Password: "12345678", Role: user.RoleStaff, NGOID: primitive.NewObjectID()}, false},
		{"valid super admin", user.NewUser{Name: "A", Email: "a@b.org", Password: "12345678", Role: user.RoleSuperAdmin}, false},
		{"unknown role", user.NewUser{Name: "A", Email: "a@b.org", Password: "12345678", Role: "owner", NGOID: primitive.NewObjectID()}, true},
		{"super admin with NGO", user.NewUser{Name: "A", Email: "a@b.org", Password: "12345678", Role: user.RoleSuperAdmin, NGOID: primitive.NewObjectID()}, true},
		{"staff without NGO", user.NewUser{Name: "A", Email: "a@b.org", Password: "12345678", Role: user.RoleStaff}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nu.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
