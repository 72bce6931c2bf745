package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/donation"
	"github.com/tangakou/msaada/core/event"
	"github.com/tangakou/msaada/core/invite"
	"github.com/tangakou/msaada/core/ngo"
	"github.com/tangakou/msaada/core/task"
	"github.com/tangakou/msaada/core/user"
	emailsvc "github.com/tangakou/msaada/services/email"
	logsvc "github.com/tangakou/msaada/services/logger"
	inmemdb "github.com/tangakou/msaada/storage/inmem"
)

type testApp struct {
	server  Server
	conf    *core.Config
	sec     *security
	usrRepo user.Repository
	usrSvc  *user.Service
	taskSvc *task.Service
}

func newTestConfig() *core.Config {
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
			Host:                      "localhost",
			Port:                      "8000",
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			InvitationExpirationDelta: 24 * time.Hour,
		},
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	emailsvc.ClearSentMessages()

	conf := newTestConfig()
	logger := logsvc.NopLogger{}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	validate := validator.New()
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	core.InitValidators(validate, translator)

	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo)
	taskSvc := task.NewService(inmemdb.NewTaskRepository(db), logger)

	srv := NewServer(&Options{
		Conf:           conf,
		Logger:         logger,
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		NGOSvc:         ngo.NewService(inmemdb.NewNGORepository(db), usrRepo, mailSvc, conf, logger),
		TaskSvc:        taskSvc,
		DonationSvc:    donation.NewService(inmemdb.NewDonationRepository(db)),
		EventSvc:       event.NewService(inmemdb.NewEventRepository(db)),
		InviteSvc:      invite.NewService(usrRepo, mailSvc, conf, logger),
		Validate:       validate,
		Translator:     translator,
	})

	return &testApp{
		server:  srv,
		conf:    conf,
		sec:     newSecurity(conf, usrSvc),
		usrRepo: usrRepo,
		usrSvc:  usrSvc,
		taskSvc: taskSvc,
	}
}

func (app *testApp) createUser(t *testing.T, name, email, pwd string, role user.Role, ngoID primitive.ObjectID) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name: name, Email: email, Role: role, NGOID: ngoID,
		Status:    user.StatusApproved,
		CreatedAt: now, UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := app.usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func (app *testApp) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := app.sec.generateToken(app.sec.getUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}
