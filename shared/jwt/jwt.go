package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/itchan-dev/boardsync/shared/domain"
	internal_errors "github.com/itchan-dev/boardsync/shared/errors"
	"github.com/itchan-dev/boardsync/shared/logger"
)

// Issuer is stamped on every board token and required on every decoded one.
const Issuer = "boardsync"

// Tokens are issued by the account service; this service only verifies them.
// NewToken exists for tooling and tests.
type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (*domain.User, error)
}

// Claims carries the board user. uid is kept beside sub for older clients that read it.
type Claims struct {
	UserId int64 `json:"uid"`
	Admin  bool  `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
	parser    *jwt.Parser
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{
		secretKey: secretKey,
		ttl:       ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserId: user.Id,
		Admin:  user.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.FormatInt(user.Id, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", errors.New("Can't create token")
	}
	return tokenString, nil
}

// DecodeToken verifies the signature, issuer and expiry and returns the user the token names.
func (j *Jwt) DecodeToken(jwtStr string) (*domain.User, error) {
	var claims Claims
	token, err := j.parser.ParseWithClaims(jwtStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		logger.Log.Debug("token rejected", "error", err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "Access token expired", StatusCode: http.StatusUnauthorized}
		}
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token signature", StatusCode: http.StatusUnauthorized}
	}
	if !token.Valid {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	id, err := claims.userId()
	if err != nil {
		logger.Log.Debug("token rejected", "error", err)
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token", StatusCode: http.StatusUnauthorized}
	}
	return &domain.User{Id: id, Admin: claims.Admin}, nil
}

// userId prefers sub and falls back to uid. Both present must agree.
func (c *Claims) userId() (domain.UserId, error) {
	if c.Subject == "" {
		if c.UserId <= 0 {
			return 0, errors.New("token names no user")
		}
		return c.UserId, nil
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("malformed subject %q", c.Subject)
	}
	if c.UserId != 0 && c.UserId != id {
		return 0, fmt.Errorf("subject %d disagrees with uid %d", id, c.UserId)
	}
	return id, nil
}
