package invite_test

import (
	"context"
	"net/mail"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/invite"
	"github.com/tangakou/msaada/core/user"
	emailsvc "github.com/tangakou/msaada/services/email"
	logsvc "github.com/tangakou/msaada/services/logger"
	inmemdb "github.com/tangakou/msaada/storage/inmem"
)

func testConfig() *core.Config {
	return &core.Config{
		AppName:             "Msaada",
		Env:                 "TEST",
		TestMode:            true,
		SecretKey:           []byte("test-secret"),
		InvitationSecretKey: []byte("test-invite-secret"),
		DefaultFromEmail:    mail.Address{Name: "Msaada", Address: "noreply@localhost"},
		FrontendBaseURL:     "http://localhost:3000",
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			InvitationExpirationDelta: 24 * time.Hour,
		},
	}
}

func newValidator() *validator.Validate {
	validate := validator.New()
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate
}

func setup(t *testing.T, conf *core.Config) (*invite.Service, user.Repository) {
	t.Helper()
	emailsvc.ClearSentMessages()

	usrRepo := inmemdb.NewUserRepository(inmemdb.Open())
	svc := invite.NewService(usrRepo, emailsvc.NewConsoleServiceMock(conf), conf, logsvc.NopLogger{})
	return svc, usrRepo
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

func TestService_GenerateAndAccept(t *testing.T) {
	ctx := context.Background()
	conf := testConfig()
	svc, _ := setup(t, conf)

	admin := user.User{
		ID: primitive.NewObjectID(), Name: "Jane Wanjiku", Email: "jane@hope.org",
		Role: user.RoleAdmin, NGOID: primitive.NewObjectID(), Status: user.StatusApproved,
	}

	inv, err := svc.Generate(ctx, admin, invite.NewInvitation{Email: "ali@hope.org", Role: user.RoleVolunteer})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(inv.Link, conf.FrontendBaseURL+"/invite?token="))

	// invitee gets the link by email
	msgs := emailsvc.GetSentMessages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].TextContent, inv.Link)

	usr, err := svc.Accept(ctx, invite.Acceptance{
		Token: tokenFromLink(t, inv.Link), Name: "Ali Musa", Password: "s3cr3t-pwd",
	})
	require.NoError(t, err)
	assert.Equal(t, "ali@hope.org", usr.Email)
	assert.Equal(t, user.RoleVolunteer, usr.Role)
	assert.Equal(t, admin.NGOID, usr.NGOID)
	assert.Equal(t, user.StatusApproved, usr.Status)
	assert.NoError(t, usr.CheckPassword("s3cr3t-pwd"))
}

func TestService_Generate_existingEmail(t *testing.T) {
	ctx := context.Background()
	conf := testConfig()
	svc, usrRepo := setup(t, conf)

	admin := user.User{ID: primitive.NewObjectID(), Role: user.RoleAdmin, NGOID: primitive.NewObjectID(), Status: user.StatusApproved}
	_, err := usrRepo.CreateUser(ctx, user.User{Email: "ali@hope.org", Role: user.RoleVolunteer, NGOID: admin.NGOID})
	require.NoError(t, err)

	_, err = svc.Generate(ctx, admin, invite.NewInvitation{Email: "ali@hope.org", Role: user.RoleVolunteer})
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "want validation error, got %v", err)
	assert.Equal(t, user.ErrEmailExists, vErr.Err)
}

func TestService_Accept_rejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	conf := testConfig()
	svc, usrRepo := setup(t, conf)

	admin := user.User{ID: primitive.NewObjectID(), Role: user.RoleAdmin, NGOID: primitive.NewObjectID(), Status: user.StatusApproved}
	inv, err := svc.Generate(ctx, admin, invite.NewInvitation{Email: "ali@hope.org", Role: user.RoleStaff})
	require.NoError(t, err)
	token := tokenFromLink(t, inv.Link)

	// garbage token
	_, err = svc.Accept(ctx, invite.Acceptance{Token: "garbage", Name: "Ali", Password: "s3cr3t-pwd"})
	assert.Error(t, err)

	// a token signed with the login key never validates as an invitation
	otherConf := testConfig()
	otherConf.InvitationSecretKey = otherConf.SecretKey
	otherSvc := invite.NewService(usrRepo, emailsvc.NewConsoleServiceMock(otherConf), otherConf, logsvc.NopLogger{})
	_, err = otherSvc.Accept(ctx, invite.Acceptance{Token: token, Name: "Ali", Password: "s3cr3t-pwd"})
	assert.Error(t, err)

	// expired invitations are rejected
	expiredConf := testConfig()
	expiredConf.Server.InvitationExpirationDelta = -time.Hour
	expiredSvc := invite.NewService(usrRepo, emailsvc.NewConsoleServiceMock(expiredConf), expiredConf, logsvc.NopLogger{})
	expiredInv, err := expiredSvc.Generate(ctx, admin, invite.NewInvitation{Email: "omar@hope.org", Role: user.RoleStaff})
	require.NoError(t, err)
	_, err = expiredSvc.Accept(ctx, invite.Acceptance{
		Token: tokenFromLink(t, expiredInv.Link), Name: "Omar", Password: "s3cr3t-pwd",
	})
	assert.Error(t, err)

	// the valid token still works afterwards
	_, err = svc.Accept(ctx, invite.Acceptance{Token: token, Name: "Ali", Password: "s3cr3t-pwd"})
	assert.NoError(t, err)
}

func TestService_Accept_existingEmail(t *testing.T) {
	ctx := context.Background()
	conf := testConfig()
	svc, usrRepo := setup(t, conf)

	admin := user.User{ID: primitive.NewObjectID(), Role: user.RoleAdmin, NGOID: primitive.NewObjectID(), Status: user.StatusApproved}
	inv, err := svc.Generate(ctx, admin, invite.NewInvitation{Email: "ali@hope.org", Role: user.RoleVolunteer})
	require.NoError(t, err)

	// the email gets registered before the invitation is redeemed
	_, err = usrRepo.CreateUser(ctx, user.User{Email: "ali@hope.org", Role: user.RoleVolunteer, NGOID: admin.NGOID})
	require.NoError(t, err)

	_, err = svc.Accept(ctx, invite.Acceptance{Token: tokenFromLink(t, inv.Link), Name: "Ali", Password: "s3cr3t-pwd"})
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "want validation error, got %v", err)
	assert.Equal(t, user.ErrEmailExists, vErr.Err)
}

func TestNewInvitation_Validate_membersOnly(t *testing.T) {
	validate := newValidator()

	ni := invite.NewInvitation{Email: "ali@hope.org", Role: user.RoleAdmin}
	assert.Error(t, ni.Validate(validate))

	ni.Role = user.RoleVolunteer
	assert.NoError(t, ni.Validate(validate))
}
