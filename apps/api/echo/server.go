package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/donation"
	"github.com/tangakou/msaada/core/event"
	"github.com/tangakou/msaada/core/invite"
	"github.com/tangakou/msaada/core/ngo"
	"github.com/tangakou/msaada/core/task"
	"github.com/tangakou/msaada/core/user"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		UserSvc     *user.Service
		NGOSvc      *ngo.Service
		TaskSvc     *task.Service
		DonationSvc *donation.Service
		EventSvc    *event.Service
		InviteSvc   *invite.Service

		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error

		// ShutdownSignal is closed when an unrecoverable error asks for a
		// graceful shutdown.
		ShutdownSignal() <-chan struct{}
	}

	server struct {
		opts       *Options
		app        *echo.Echo
		shutdownCh chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:       opts,
		app:        echo.New(),
		shutdownCh: make(chan struct{}),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Translator, s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	sec := newSecurity(conf, s.opts.UserSvc)
	jwt := middleware.JWTWithConfig(sec.jwtConfig())
	authed := []echo.MiddlewareFunc{jwt, sec.contextUserMiddleware()}

	api := s.app.Group("/api")
	registerAuthAPI(api, authed, sec, s.opts.UserSvc, s.opts.Validate)
	registerNGOAPI(api, authed, s.opts.NGOSvc, s.opts.Validate)
	registerMemberAPI(api, authed, s.opts.UserSvc, s.opts.Validate)
	registerInvitationAPI(api, authed, s.opts.InviteSvc, s.opts.Validate)
	registerTaskAPI(api, authed, s.opts.TaskSvc, s.opts.Validate)
	registerDonationAPI(api, authed, s.opts.DonationSvc, s.opts.Validate)
	registerEventAPI(api, authed, s.opts.EventSvc, s.opts.Validate)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Conf.Addr())
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ShutdownSignal() <-chan struct{} {
	return s.shutdownCh
}

func (s *server) signalShutdown() {
	select {
	case <-s.shutdownCh:
	default:
		close(s.shutdownCh)
	}
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Msaada API!")
}
