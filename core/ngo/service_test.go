package ngo_test

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/ngo"
	"github.com/tangakou/msaada/core/user"
	emailsvc "github.com/tangakou/msaada/services/email"
	logsvc "github.com/tangakou/msaada/services/logger"
	inmemdb "github.com/tangakou/msaada/storage/inmem"
)

func testConfig() *core.Config {
	return &core.Config{
		AppName:              "Msaada",
		Env:                  "TEST",
		TestMode:             true,
		SecretKey:            []byte("test-secret"),
		InvitationSecretKey:  []byte("test-invite-secret"),
		DefaultFromEmail:     mail.Address{Name: "Msaada", Address: "noreply@localhost"},
		SuperAdminEmail:      "superadmin@localhost",
		DefaultAdminPassword: "Admin@123",
		FrontendBaseURL:      "http://localhost:3000",
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			InvitationExpirationDelta: 24 * time.Hour,
		},
	}
}

func setup(t *testing.T) (*ngo.Service, user.Repository) {
	t.Helper()
	emailsvc.ClearSentMessages()

	conf := testConfig()
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	svc := ngo.NewService(
		inmemdb.NewNGORepository(db), usrRepo, emailsvc.NewConsoleServiceMock(conf), conf, logsvc.NopLogger{})
	return svc, usrRepo
}

func registrationRequest() ngo.RegistrationRequest {
	return ngo.RegistrationRequest{
		Name:         "Hope Foundation",
		Address:      "12 Umoja Rd, Nairobi",
		ContactEmail: "contact@hope.org",
		AdminName:    "Jane Wanjiku",
		AdminEmail:   "jane@hope.org",
	}
}

func TestService_Request(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	n, err := svc.Request(ctx, registrationRequest())
	require.NoError(t, err)
	assert.Equal(t, ngo.StatusPending, n.Status)
	assert.False(t, n.ID.IsZero())

	// submitter + super admin notified
	msgs := emailsvc.GetSentMessages()
	require.Len(t, msgs, 2)

	// duplicate contact email is rejected
	_, err = svc.Request(ctx, registrationRequest())
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "want validation error, got %v", err)
	assert.Equal(t, ngo.ErrEmailExists, vErr.Err)
}

func TestService_Approve(t *testing.T) {
	ctx := context.Background()
	svc, usrRepo := setup(t)

	n, err := svc.Request(ctx, registrationRequest())
	require.NoError(t, err)
	emailsvc.ClearSentMessages()

	res, err := svc.Approve(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, ngo.StatusApproved, res.NGO.Status)
	assert.Equal(t, "Admin@123", res.DefaultPassword)

	// admin account provisioned, approved, linked to the NGO
	admin, err := usrRepo.GetUserByEmail(ctx, "jane@hope.org")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)
	assert.Equal(t, user.StatusApproved, admin.Status)
	assert.Equal(t, n.ID, admin.NGOID)
	assert.NoError(t, admin.CheckPassword("Admin@123"))

	// default password disclosed exactly once, in the approval email
	msgs := emailsvc.GetSentMessages()
	require.Len(t, msgs, 2)

	// approving again fails and does not duplicate the admin
	_, err = svc.Approve(ctx, n.ID)
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "want validation error, got %v", err)
	assert.Equal(t, ngo.ErrAlreadyApproved, vErr.Err)

	users, err := usrRepo.FilterUsers(ctx, user.Filter{NGOID: n.ID})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestService_Approve_reusesProvisionedAdmin(t *testing.T) {
	ctx := context.Background()
	svc, usrRepo := setup(t)

	n, err := svc.Request(ctx, registrationRequest())
	require.NoError(t, err)

	// simulate a retry after the admin got created but the status save
	// failed, with the admin having changed their password in the meantime
	now := time.Now().UTC()
	admin := user.User{
		Name: "Jane Wanjiku", Email: "jane@hope.org",
		Role: user.RoleAdmin, NGOID: n.ID, Status: user.StatusApproved,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, admin.SetPassword("my-0wn-pwd"))
	admin, err = usrRepo.CreateUser(ctx, admin)
	require.NoError(t, err)
	emailsvc.ClearSentMessages()

	res, err := svc.Approve(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, res.Admin.ID)

	// the default password is not disclosed for a reused account, neither
	// in the result nor in the notification
	assert.Empty(t, res.DefaultPassword)
	msgs := emailsvc.GetSentMessages()
	require.Len(t, msgs, 2)
	for _, msg := range msgs {
		assert.NotContains(t, msg.TextContent, "Admin@123")
	}

	// the account keeps its own password
	got, err := usrRepo.GetUserByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.NoError(t, got.CheckPassword("my-0wn-pwd"))

	users, err := usrRepo.FilterUsers(ctx, user.Filter{NGOID: n.ID})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestService_Approve_adminEmailTakenByAnotherAccount(t *testing.T) {
	ctx := context.Background()
	svc, usrRepo := setup(t)

	n, err := svc.Request(ctx, registrationRequest())
	require.NoError(t, err)

	taken := user.User{Name: "Someone Else", Email: "jane@hope.org", Role: user.RoleVolunteer, Status: user.StatusApproved}
	_, err = usrRepo.CreateUser(ctx, taken)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, n.ID)
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "want validation error, got %v", err)
	assert.Equal(t, user.ErrEmailExists, vErr.Err)

	// NGO stays pending
	got, err := svc.QueryPending(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_Reject(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	n, err := svc.Request(ctx, registrationRequest())
	require.NoError(t, err)
	emailsvc.ClearSentMessages()

	require.NoError(t, svc.Reject(ctx, n.ID, ""))

	// record is gone, not archived
	superAdmin := user.User{Role: user.RoleSuperAdmin, Status: user.StatusApproved}
	_, err = svc.GetByID(ctx, superAdmin, n.ID)
	assert.Equal(t, core.ErrNotFound, errors.Cause(err))

	// both notifications carry the default reason
	msgs := emailsvc.GetSentMessages()
	require.Len(t, msgs, 2)
	for _, msg := range msgs {
		assert.Contains(t, msg.TextContent, "Not specified")
	}
}

func TestService_GetByID_tenantScoping(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	n, err := svc.Request(ctx, registrationRequest())
	require.NoError(t, err)

	other, err := svc.Request(ctx, ngo.RegistrationRequest{
		Name: "Food Aid", Address: "3 Moi Ave", ContactEmail: "contact@foodaid.org",
		AdminName: "Ali Musa", AdminEmail: "ali@foodaid.org",
	})
	require.NoError(t, err)

	superAdmin := user.User{Role: user.RoleSuperAdmin, Status: user.StatusApproved}
	tenant := user.User{Role: user.RoleAdmin, NGOID: n.ID, Status: user.StatusApproved}

	_, err = svc.GetByID(ctx, superAdmin, n.ID)
	assert.NoError(t, err)
	_, err = svc.GetByID(ctx, tenant, n.ID)
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, tenant, other.ID)
	assert.Equal(t, core.ErrPermissionDenied, errors.Cause(err))
}
