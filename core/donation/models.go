package donation

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
)

// PaymentMethod is the closed set of accepted payment methods.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank transfer"
	MethodCreditCard   PaymentMethod = "credit card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCreditCard:
		return true
	}
	return false
}

type Donation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NGOID         primitive.ObjectID `bson:"ngo_id" json:"ngoId"`
	DonorName     string             `bson:"donor_name" json:"donorName"`
	DonorEmail    string             `bson:"donor_email" json:"donorEmail"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod PaymentMethod      `bson:"payment_method" json:"paymentMethod"`
	DonationDate  time.Time          `bson:"donation_date" json:"donationDate"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"` // UTC
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"` // UTC
}

// NewDonation contains information needed to record a donation.
type NewDonation struct {
	DonorName     string        `json:"donorName" validate:"required"`
	DonorEmail    string        `json:"donorEmail" validate:"required,email"`
	Amount        float64       `json:"amount" validate:"required,gt=0"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required"`
	DonationDate  time.Time     `json:"donationDate"`
}

func (nd *NewDonation) Validate(validate *validator.Validate) error {
	nd.DonorName = core.CleanString(nd.DonorName)
	nd.DonorEmail = core.CleanString(nd.DonorEmail, true /* lower */)
	nd.PaymentMethod = PaymentMethod(core.CleanString(string(nd.PaymentMethod), true /* lower */))

	if err := validate.Struct(nd); err != nil {
		return err
	}
	if !nd.PaymentMethod.Valid() {
		return core.NewValidationError(nil, core.FieldError{
			Field: "paymentMethod", Error: "allowed payment methods: cash, bank transfer, credit card"})
	}
	return nil
}

// UpdateDonation defines the admin/staff update; zero fields keep current values.
type UpdateDonation struct {
	DonorName     string        `json:"donorName"`
	DonorEmail    string        `json:"donorEmail" validate:"omitempty,email"`
	Amount        float64       `json:"amount" validate:"omitempty,gt=0"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	DonationDate  time.Time     `json:"donationDate"`
}

func (ud *UpdateDonation) Validate(validate *validator.Validate) error {
	ud.DonorName = core.CleanString(ud.DonorName)
	ud.DonorEmail = core.CleanString(ud.DonorEmail, true /* lower */)
	ud.PaymentMethod = PaymentMethod(core.CleanString(string(ud.PaymentMethod), true /* lower */))

	if err := validate.Struct(ud); err != nil {
		return err
	}
	if ud.PaymentMethod != "" && !ud.PaymentMethod.Valid() {
		return core.NewValidationError(nil, core.FieldError{
			Field: "paymentMethod", Error: "allowed payment methods: cash, bank transfer, credit card"})
	}
	return nil
}
