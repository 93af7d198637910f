package security

import (
	"strings"
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const issuer = "orderhub"

type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// JWTIssuer signs sessions as HS256 tokens. The subject is the actor and the token id
// is the session.
type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewJWTIssuer(secret string) (*JWTIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errs.NewValueIsRequiredError("jwt secret")
	}
	return &JWTIssuer{secret: []byte(secret), now: time.Now}, nil
}

func (i *JWTIssuer) Issue(session access.Session) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   session.ActorID.String(),
			ID:        session.ID.String(),
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
		Role: string(session.Role),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign session token")
	}
	return token, nil
}

// Parse verifies the signature and expiry. Every failure is reported as invalid
// credentials so callers cannot tell a forged token from an expired one.
func (i *JWTIssuer) Parse(token string) (access.Session, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	claims := &sessionClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return access.Session{}, errs.ErrInvalidCredentials
	}

	actorID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return access.Session{}, errs.ErrInvalidCredentials
	}
	sessionID, err := kernel.UUIDFromString(claims.ID)
	if err != nil {
		return access.Session{}, errs.ErrInvalidCredentials
	}
	role, err := access.ParseRoleName(claims.Role)
	if err != nil {
		return access.Session{}, errs.ErrInvalidCredentials
	}

	return access.Session{
		ID:        sessionID,
		ActorID:   actorID,
		Role:      role,
		Token:     token,
		IssuedAt:  claims.IssuedAt.UTC(),
		ExpiresAt: claims.ExpiresAt.UTC(),
	}, nil
}
