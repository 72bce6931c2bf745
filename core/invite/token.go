package invite

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/tangakou/msaada/core/user"
)

var errInvalidToken = errors.New("invalid or expired invitation token")

// Claims is the payload of an invitation token: it pre-authorizes account
// creation for a fixed email, role and NGO. Invitation tokens are signed with
// a dedicated key; they never validate as login tokens and vice versa.
type Claims struct {
	jwt.StandardClaims
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
	NGOID string    `json:"ngoId"`
}

// makeToken signs invitation claims for the given invitee.
func makeToken(key []byte, issuer, email string, role user.Role, ngoID string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(expiration).Unix(),
		},
		Email: email,
		Role:  role,
		NGOID: ngoID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	return token, errors.Wrap(err, "signing invitation token")
}

// verifyToken parses and validates an invitation token against the
// invitation signing key.
func verifyToken(key []byte, token string) (Claims, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, errInvalidToken
	}
	return *claims, nil
}
