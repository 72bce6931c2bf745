package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/go-playground/locales/en"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/donation"
	"github.com/tangakou/msaada/core/event"
	"github.com/tangakou/msaada/core/invite"
	"github.com/tangakou/msaada/core/ngo"
	"github.com/tangakou/msaada/core/task"
	"github.com/tangakou/msaada/core/user"

	echoapi "github.com/tangakou/msaada/apps/api/echo"
	emailsvc "github.com/tangakou/msaada/services/email"
	logsvc "github.com/tangakou/msaada/services/logger"
	mongodb "github.com/tangakou/msaada/storage/mongo"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatalf("loading config: %+v", err)
	}

	logger := logsvc.NewRollbarLogger(std, conf)

	// set up DB
	db, closeDB, err := mongodb.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer closeDB()

	ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
	err = mongodb.EnsureIndexes(ctx, db)
	cancel()
	if err != nil {
		logger.Fatal("ensuring indexes", err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate := validator.New()
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	core.InitValidators(validate, translator)

	usrRepo := mongodb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo)
	ngoSvc := ngo.NewService(mongodb.NewNGORepository(db), usrRepo, mailSvc, conf, logger)
	taskSvc := task.NewService(mongodb.NewTaskRepository(db), logger)
	donationSvc := donation.NewService(mongodb.NewDonationRepository(db))
	eventSvc := event.NewService(mongodb.NewEventRepository(db))
	inviteSvc := invite.NewService(usrRepo, mailSvc, conf, logger)

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Conf:        conf,
		Logger:      logger,
		UserSvc:     usrSvc,
		NGOSvc:      ngoSvc,
		TaskSvc:     taskSvc,
		DonationSvc: donationSvc,
		EventSvc:    eventSvc,
		InviteSvc:   inviteSvc,
		Validate:    validate,
		Translator:  translator,
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening on " + conf.Addr())
		serverErrors <- app.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal("server error", err)
	case <-app.ShutdownSignal():
		logger.Warn("integrity issue detected; shutting down")
	case sig := <-quit:
		logger.Info("received signal " + sig.String() + "; shutting down")
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Error("graceful shutdown failed", err)
	}
}
