package invite

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/user"
)

var ErrInvalidToken = core.NewValidationError(errInvalidToken,
	core.FieldError{Field: "token", Error: errInvalidToken.Error()})

// Invitation is what an admin gets back after inviting a member.
type Invitation struct {
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	Link      string    `json:"invitationLink"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Service struct {
	usrRepo user.Repository
	mailSvc core.EmailService
	conf    *core.Config
	logger  core.Logger
}

func NewService(usrRepo user.Repository, mailSvc core.EmailService, conf *core.Config, logger core.Logger) *Service {
	return &Service{usrRepo: usrRepo, mailSvc: mailSvc, conf: conf, logger: logger}
}

// Generate mints an invitation for the actor's NGO and emails the link to the
// invitee. The invitee must not already have an account.
func (svc *Service) Generate(ctx context.Context, actor user.User, ni NewInvitation) (Invitation, error) {
	if !actor.HasNGO() {
		return Invitation{}, core.NewValidationError(errors.New("user is not linked to any NGO"))
	}

	if _, err := svc.usrRepo.GetUserByEmail(ctx, ni.Email); err == nil {
		return Invitation{}, core.NewValidationError(user.ErrEmailExists,
			core.FieldError{Field: "email", Error: user.ErrEmailExists.Error()})
	} else if errors.Cause(err) != core.ErrNotFound {
		return Invitation{}, err
	}

	expiration := svc.conf.Server.InvitationExpirationDelta
	token, err := makeToken(svc.conf.InvitationSecretKey, svc.conf.AppName, ni.Email, ni.Role, actor.NGOID.Hex(), expiration)
	if err != nil {
		return Invitation{}, err
	}

	inv := Invitation{
		Email:     ni.Email,
		Role:      ni.Role,
		Link:      svc.conf.FrontendBaseURL + "/invite?token=" + url.QueryEscape(token),
		ExpiresAt: time.Now().Add(expiration).UTC(),
	}
	svc.sendInvitationEmail(actor, inv)
	return inv, nil
}

// Accept redeems an invitation token and creates an approved account with the
// email, role and NGO carried by the token.
func (svc *Service) Accept(ctx context.Context, a Acceptance) (user.User, error) {
	claims, err := verifyToken(svc.conf.InvitationSecretKey, a.Token)
	if err != nil {
		return user.User{}, ErrInvalidToken
	}

	ngoID, err := primitive.ObjectIDFromHex(claims.NGOID)
	if err != nil {
		return user.User{}, ErrInvalidToken
	}

	if _, err = svc.usrRepo.GetUserByEmail(ctx, claims.Email); err == nil {
		return user.User{}, core.NewValidationError(user.ErrEmailExists,
			core.FieldError{Field: "email", Error: user.ErrEmailExists.Error()})
	} else if errors.Cause(err) != core.ErrNotFound {
		return user.User{}, err
	}

	now := time.Now().UTC()
	usr := user.User{
		Name:      a.Name,
		Email:     claims.Email,
		Role:      claims.Role,
		NGOID:     ngoID,
		Status:    user.StatusApproved,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = usr.SetPassword(a.Password); err != nil {
		return user.User{}, errors.Wrap(err, "hashing password")
	}

	usr, err = svc.usrRepo.CreateUser(ctx, usr)
	if err != nil {
		return user.User{}, err
	}
	svc.logger.Info(fmt.Sprintf("invitation accepted: %s joined as %s", usr.Email, usr.Role))
	return usr, nil
}

func (svc *Service) sendInvitationEmail(actor user.User, inv Invitation) {
	body := fmt.Sprintf(
		"Hello,\n\n%s has invited you to join their NGO on %s as %s.\n\n"+
			"Follow this link to set up your account:\n%s\n\nThe link expires in %s.",
		actor.Name, svc.conf.AppName, inv.Role, inv.Link,
		svc.conf.Server.InvitationExpirationDelta,
	)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: inv.Email}},
		Subject: fmt.Sprintf("You have been invited to join %s", svc.conf.AppName),
		BodyStr: body,
	})
}
