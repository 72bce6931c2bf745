package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/user"
)

const (
	contextTokenKey = "userToken"
	contextUserKey  = "user"
)

// Claims represents the authorization claims transmitted via a JWT.
// Subject is the user's ObjectID hex.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64     `json:"oriat,omitempty"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Role         user.Role `json:"role,omitempty"`
	NGOID        string    `json:"ngoId,omitempty"`
}

// security owns login-token issuance and verification. Invitation tokens use
// a different key and never pass here.
type security struct {
	conf   *core.Config
	usrSvc *user.Service
}

func newSecurity(conf *core.Config, usrSvc *user.Service) *security {
	return &security{conf: conf, usrSvc: usrSvc}
}

func (sec *security) jwtConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    sec.conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

func (sec *security) getUserClaims(usr user.User, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    sec.conf.AppName,
			Subject:   usr.ID.Hex(),
			ExpiresAt: now.Add(sec.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Name:         usr.Name,
		Email:        usr.Email,
		Role:         usr.Role,
	}
	if usr.HasNGO() {
		claims.NGOID = usr.NGOID.Hex()
	}
	return claims
}

func (sec *security) authenticate(ctx echo.Context, email, pwd string) (user.User, *Claims, error) {
	usr, err := sec.usrSvc.GetByEmail(ctx.Request().Context(), email)
	if err != nil {
		if errors.Cause(err) == core.ErrNotFound {
			return user.User{}, nil, errAuthenticationFailed
		}
		return user.User{}, nil, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return user.User{}, nil, errAuthenticationFailed
	}
	if usr.Status != user.StatusApproved {
		return user.User{}, nil, errAccountPendingApproval
	}
	return usr, sec.getUserClaims(usr), nil
}

// generateToken generates a signed JWT token string representing the user Claims.
func (sec *security) generateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(sec.conf.SecretKey)
	return ss, errors.Wrap(err, "signing token")
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUnauthorized
}

// contextUserMiddleware resolves the token subject to a live user record and
// stores it in the request context. Deleted subjects and unapproved accounts
// are rejected here, before any handler runs.
func (sec *security) contextUserMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}

			id, err := primitive.ObjectIDFromHex(claims.Subject)
			if err != nil {
				return errUnauthorized
			}
			usr, err := sec.usrSvc.GetByID(ctx.Request().Context(), id)
			if err != nil {
				if errors.Cause(err) == core.ErrNotFound {
					return errUnauthorized
				}
				return errors.Wrap(err, "finding user by ID")
			}
			if usr.Status != user.StatusApproved {
				return errAccountPendingApproval
			}

			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

func (sec *security) refreshToken(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return "", err
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(sec.conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	newClaims := sec.getUserClaims(usr, claims.OrigIssuedAt)
	token, err := sec.generateToken(newClaims)
	return token, errors.Wrap(err, "generating token")
}
