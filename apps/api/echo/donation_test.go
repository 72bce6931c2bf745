package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core/donation"
	"github.com/tangakou/msaada/core/event"
	"github.com/tangakou/msaada/core/user"
)

func Test_donationApi_roundTrip(t *testing.T) {
	app := newTestApp(t)
	ngoID := primitive.NewObjectID()
	staff := app.createUser(t, "Asha Juma", "asha@hope.org", "s3cr3t-pwd", user.RoleStaff, ngoID)
	admin := app.createUser(t, "Jane Wanjiku", "jane@hope.org", "s3cr3t-pwd", user.RoleAdmin, ngoID)
	volunteer := app.createUser(t, "Ali Musa", "ali@hope.org", "s3cr3t-pwd", user.RoleVolunteer, ngoID)

	body := marshallObj(t, donation.NewDonation{
		DonorName: "Omar Said", DonorEmail: "omar@example.com",
		Amount: 150.0, PaymentMethod: donation.MethodCash,
	})

	// volunteers have no donation access
	req, rec := newAuthRequest(http.MethodPost, "/api/donations", app.getToken(t, volunteer), body)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/api/donations", app.getToken(t, volunteer))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// staff records a donation
	req, rec = newAuthRequest(http.MethodPost, "/api/donations", app.getToken(t, staff), body)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Donation donation.Donation `json:"donation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ngoID, resp.Donation.NGOID)

	// bad payload is a 400 with field errors
	req, rec = newAuthRequest(http.MethodPost, "/api/donations", app.getToken(t, staff),
		marshallObj(t, donation.NewDonation{DonorName: "Omar", DonorEmail: "omar@example.com", Amount: -1, PaymentMethod: "mpesa"}))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// deletion is admin-only
	req, rec = newAuthRequest(http.MethodDelete, "/api/donations/"+resp.Donation.ID.Hex(), app.getToken(t, staff))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodDelete, "/api/donations/"+resp.Donation.ID.Hex(), app.getToken(t, admin))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func Test_eventApi_volunteerCanRead(t *testing.T) {
	app := newTestApp(t)
	ngoID := primitive.NewObjectID()
	staff := app.createUser(t, "Asha Juma", "asha@hope.org", "s3cr3t-pwd", user.RoleStaff, ngoID)
	volunteer := app.createUser(t, "Ali Musa", "ali@hope.org", "s3cr3t-pwd", user.RoleVolunteer, ngoID)

	body := marshallObj(t, map[string]interface{}{
		"title": "Charity Run", "location": "Uhuru Park", "eventDate": "2026-10-01T09:00:00Z",
	})
	req, rec := newAuthRequest(http.MethodPost, "/api/events", app.getToken(t, staff), body)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// volunteers can list events but not create them
	req, rec = newAuthRequest(http.MethodGet, "/api/events", app.getToken(t, volunteer))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []event.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Len(t, events, 1)

	req, rec = newAuthRequest(http.MethodPost, "/api/events", app.getToken(t, volunteer), body)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
