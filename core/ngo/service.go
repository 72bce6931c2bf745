package ngo

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/user"
)

var (
	ErrNotFound    = errors.WithMessage(core.ErrNotFound, "NGO not found")
	ErrEmailExists = errors.New("NGO already exists with this email")

	ErrAlreadyApproved = errors.New("NGO is already approved")
	ErrNotPending      = errors.New("NGO is not pending approval")
)

type (
	Repository interface {
		CreateNGO(ctx context.Context, n NGO) (NGO, error)
		GetNGOByID(ctx context.Context, id primitive.ObjectID) (NGO, error)
		GetNGOByContactEmail(ctx context.Context, email string) (NGO, error)
		QueryAllNGOs(ctx context.Context) ([]NGO, error)
		FilterNGOsByStatus(ctx context.Context, status Status) ([]NGO, error)
		UpdateNGO(ctx context.Context, n NGO) (NGO, error)
		DeleteNGOByID(ctx context.Context, id primitive.ObjectID) error
	}

	Service struct {
		repo    Repository
		usrRepo user.Repository
		mailSvc core.EmailService
		conf    *core.Config
		logger  core.Logger
	}

	// ApprovalResult carries everything the approve operation produced.
	// DefaultPassword is disclosed exactly once, and only when this call
	// provisioned the admin account; it is empty when an existing account
	// was reused, since that account's password may have changed.
	ApprovalResult struct {
		NGO             NGO
		Admin           user.User
		DefaultPassword string
	}
)

func NewService(repo Repository, usrRepo user.Repository, mailSvc core.EmailService, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		repo:    repo,
		usrRepo: usrRepo,
		mailSvc: mailSvc,
		conf:    conf,
		logger:  logger,
	}
}

// Request submits a public NGO registration; the NGO starts out pending.
// The submitting admin and the platform super admin are both notified.
func (svc *Service) Request(ctx context.Context, rr RegistrationRequest) (NGO, error) {
	if _, err := svc.repo.GetNGOByContactEmail(ctx, rr.ContactEmail); err == nil {
		return NGO{}, core.NewValidationError(ErrEmailExists,
			core.FieldError{Field: "contactEmail", Error: ErrEmailExists.Error()})
	} else if errors.Cause(err) != core.ErrNotFound {
		return NGO{}, err
	}

	now := time.Now().UTC()
	n := NGO{
		Name:         rr.Name,
		Address:      rr.Address,
		ContactEmail: rr.ContactEmail,
		AdminName:    rr.AdminName,
		AdminEmail:   rr.AdminEmail,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	n, err := svc.repo.CreateNGO(ctx, n)
	if err != nil {
		return NGO{}, err
	}

	svc.mailSvc.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Name: n.AdminName, Address: n.AdminEmail}},
			Subject: "NGO registration request received",
			BodyStr: fmt.Sprintf(
				"Hello %s,\n\nYour registration request for %q has been received and is awaiting approval. "+
					"You will be notified once it has been reviewed.", n.AdminName, n.Name),
		},
		&core.EmailMessage{
			To:      []mail.Address{{Address: svc.conf.SuperAdminEmail}},
			Subject: "New NGO registration request",
			BodyStr: fmt.Sprintf("A new NGO registration request is awaiting review:\n\n%s (%s)", n.Name, n.ContactEmail),
		},
	)
	return n, nil
}

// Approve transitions a pending NGO to approved and provisions its admin
// account with the configured default password.
//
// Provisioning is idempotent: if the admin account already exists for this
// NGO (eg. a retry after the status save failed), it is reused rather than
// duplicated.
func (svc *Service) Approve(ctx context.Context, id primitive.ObjectID) (ApprovalResult, error) {
	n, err := svc.repo.GetNGOByID(ctx, id)
	if err != nil {
		return ApprovalResult{}, err
	}
	if n.Status == StatusApproved {
		return ApprovalResult{}, core.NewValidationError(ErrAlreadyApproved)
	}
	if n.Status != StatusPending {
		return ApprovalResult{}, core.NewValidationError(ErrNotPending)
	}
	if n.AdminName == "" || n.AdminEmail == "" {
		return ApprovalResult{}, core.NewValidationError(errors.New("admin details missing in NGO registration request"))
	}

	var defaultPassword string
	admin, err := svc.usrRepo.GetUserByEmail(ctx, n.AdminEmail)
	switch {
	case err == nil:
		if !admin.IsAdmin() || admin.NGOID != n.ID {
			return ApprovalResult{}, core.NewValidationError(user.ErrEmailExists,
				core.FieldError{Field: "adminEmail", Error: user.ErrEmailExists.Error()})
		}
	case errors.Cause(err) == core.ErrNotFound:
		defaultPassword = svc.conf.DefaultAdminPassword
		now := time.Now().UTC()
		admin = user.User{
			Name:      n.AdminName,
			Email:     n.AdminEmail,
			Role:      user.RoleAdmin,
			NGOID:     n.ID,
			Status:    user.StatusApproved,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = admin.SetPassword(defaultPassword); err != nil {
			return ApprovalResult{}, errors.Wrap(err, "hashing default password")
		}
		if admin, err = svc.usrRepo.CreateUser(ctx, admin); err != nil {
			return ApprovalResult{}, errors.Wrap(err, "provisioning admin account")
		}
	default:
		return ApprovalResult{}, err
	}

	n.Status = StatusApproved
	n.UpdatedAt = time.Now().UTC()
	if n, err = svc.repo.UpdateNGO(ctx, n); err != nil {
		return ApprovalResult{}, errors.Wrap(err, "saving NGO status")
	}

	adminBody := fmt.Sprintf(
		"Hello %s,\n\n%q has been approved. You may log in with your existing admin account (%s).",
		admin.Name, n.Name, admin.Email)
	if defaultPassword != "" {
		adminBody = fmt.Sprintf(
			"Hello %s,\n\n%q has been approved. An admin account has been created for %s "+
				"with the default password %q. Please change it after your first login.",
			admin.Name, n.Name, admin.Email, defaultPassword)
	}

	svc.mailSvc.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Name: admin.Name, Address: admin.Email}},
			Subject: "NGO approved",
			BodyStr: adminBody,
		},
		&core.EmailMessage{
			To:      []mail.Address{{Name: n.Name, Address: n.ContactEmail}},
			Subject: "NGO approved",
			BodyStr: fmt.Sprintf("%q has been approved and may now use the platform.", n.Name),
		},
	)

	return ApprovalResult{NGO: n, Admin: admin, DefaultPassword: defaultPassword}, nil
}

// Reject notifies the requester and contact with the given reason, then
// deletes the NGO record permanently. Rejected NGOs are not retained.
func (svc *Service) Reject(ctx context.Context, id primitive.ObjectID, reason string) error {
	n, err := svc.repo.GetNGOByID(ctx, id)
	if err != nil {
		return err
	}

	reason = core.CleanString(reason)
	if reason == "" {
		reason = "Not specified"
	}

	svc.mailSvc.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Name: n.AdminName, Address: n.AdminEmail}},
			Subject: "NGO registration rejected",
			BodyStr: fmt.Sprintf(
				"Hello %s,\n\nThe registration request for %q has been rejected.\nReason: %s",
				n.AdminName, n.Name, reason),
		},
		&core.EmailMessage{
			To:      []mail.Address{{Name: n.Name, Address: n.ContactEmail}},
			Subject: "NGO registration rejected",
			BodyStr: fmt.Sprintf("The registration request for %q has been rejected.\nReason: %s", n.Name, reason),
		},
	)

	return svc.repo.DeleteNGOByID(ctx, n.ID)
}

// GetByID returns the NGO if the actor may see it: the super admin may fetch
// any NGO, tenant users only their own.
func (svc *Service) GetByID(ctx context.Context, actor user.User, id primitive.ObjectID) (NGO, error) {
	n, err := svc.repo.GetNGOByID(ctx, id)
	if err != nil {
		return NGO{}, err
	}
	if !actor.IsSuperAdmin() && actor.NGOID != n.ID {
		return NGO{}, errors.WithMessage(core.ErrPermissionDenied, "access denied")
	}
	return n, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]NGO, error) {
	return svc.repo.QueryAllNGOs(ctx)
}

func (svc *Service) QueryPending(ctx context.Context) ([]NGO, error) {
	return svc.repo.FilterNGOsByStatus(ctx, StatusPending)
}

// Delete removes an NGO outright (super admin operation).
func (svc *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := svc.repo.GetNGOByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteNGOByID(ctx, id)
}
