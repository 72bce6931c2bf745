package donation

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/user"
)

var ErrNotFound = errors.WithMessage(core.ErrNotFound, "donation not found")

type (
	Repository interface {
		CreateDonation(ctx context.Context, d Donation) (Donation, error)
		GetDonationByID(ctx context.Context, id primitive.ObjectID) (Donation, error)
		QueryDonationsByNGO(ctx context.Context, ngoID primitive.ObjectID) ([]Donation, error)
		UpdateDonation(ctx context.Context, d Donation) (Donation, error)
		DeleteDonationByID(ctx context.Context, id primitive.ObjectID) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records a donation against the actor's NGO.
func (svc *Service) Create(ctx context.Context, actor user.User, nd NewDonation) (Donation, error) {
	if !actor.HasNGO() {
		return Donation{}, core.NewValidationError(errors.New("user is not linked to any NGO"))
	}

	now := time.Now().UTC()
	d := Donation{
		NGOID:         actor.NGOID,
		DonorName:     nd.DonorName,
		DonorEmail:    nd.DonorEmail,
		Amount:        nd.Amount,
		PaymentMethod: nd.PaymentMethod,
		DonationDate:  nd.DonationDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if d.DonationDate.IsZero() {
		d.DonationDate = now
	}
	return svc.repo.CreateDonation(ctx, d)
}

func (svc *Service) Query(ctx context.Context, actor user.User) ([]Donation, error) {
	if !actor.HasNGO() {
		return nil, core.NewValidationError(errors.New("user is not linked to any NGO"))
	}
	return svc.repo.QueryDonationsByNGO(ctx, actor.NGOID)
}

func (svc *Service) get(ctx context.Context, actor user.User, id primitive.ObjectID) (Donation, error) {
	d, err := svc.repo.GetDonationByID(ctx, id)
	if err != nil {
		return Donation{}, err
	}
	if d.NGOID != actor.NGOID {
		return Donation{}, errors.WithMessage(core.ErrPermissionDenied, "donation does not belong to your NGO")
	}
	return d, nil
}

func (svc *Service) GetByID(ctx context.Context, actor user.User, id primitive.ObjectID) (Donation, error) {
	return svc.get(ctx, actor, id)
}

func (svc *Service) Update(ctx context.Context, actor user.User, id primitive.ObjectID, ud UpdateDonation) (Donation, error) {
	d, err := svc.get(ctx, actor, id)
	if err != nil {
		return Donation{}, err
	}

	if ud.DonorName != "" {
		d.DonorName = ud.DonorName
	}
	if ud.DonorEmail != "" {
		d.DonorEmail = ud.DonorEmail
	}
	if ud.Amount != 0 {
		d.Amount = ud.Amount
	}
	if ud.PaymentMethod != "" {
		d.PaymentMethod = ud.PaymentMethod
	}
	if !ud.DonationDate.IsZero() {
		d.DonationDate = ud.DonationDate
	}
	d.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateDonation(ctx, d)
}

func (svc *Service) Delete(ctx context.Context, actor user.User, id primitive.ObjectID) error {
	d, err := svc.get(ctx, actor, id)
	if err != nil {
		return err
	}
	return svc.repo.DeleteDonationByID(ctx, d.ID)
}
