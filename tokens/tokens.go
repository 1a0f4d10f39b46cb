// Package tokens issues and verifies the signed access and refresh tokens
// carrying identity and the permission snapshot taken at issuance.
package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Verification failures. Anything else coming out of Verify is an internal
// problem (blacklist store unavailable).
var (
	ErrExpired          = errors.New("token: expired")
	ErrMalformed        = errors.New("token: malformed")
	ErrSignatureInvalid = errors.New("token: signature invalid")
	ErrRevoked          = errors.New("token: revoked")
)

// Class selects which token secret, lifetime and revocation rules apply.
type Class int

const (
	Access Class = iota
	Refresh
)

// Claims is the payload of both token classes: subject id plus the
// permission snapshot taken when the pair was issued.
type Claims struct {
	ID          string   `json:"id"`
	Permissions []string `json:"permissions"`
	jwt.StandardClaims
}

// Pair is an access/refresh token pair.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Service signs and verifies tokens. Access tokens are additionally checked
// against the blacklist so revocation beats an otherwise valid signature.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpire  time.Duration
	refreshExpire time.Duration
	blacklist     Blacklist
}

// NewService builds a token service with distinct secrets per token class.
func NewService(accessSecret, refreshSecret string, accessExpire, refreshExpire time.Duration, blacklist Blacklist) *Service {
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpire:  accessExpire,
		refreshExpire: refreshExpire,
		blacklist:     blacklist,
	}
}

// AccessExpire returns the configured access-token lifetime.
func (s *Service) AccessExpire() time.Duration { return s.accessExpire }

// IssuePair mints an access and a refresh token for the subject. Both embed
// the same permission snapshot; permissions are not re-resolved until the
// tokens expire.
func (s *Service) IssuePair(subjectID string, perms []string) (Pair, error) {
	accessToken, err := s.sign(subjectID, perms, s.accessSecret, s.accessExpire)
	if err != nil {
		return Pair{}, err
	}
	refreshToken, err := s.sign(subjectID, perms, s.refreshSecret, s.refreshExpire)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Verify validates a token of the given class. Access tokens hit the
// blacklist before the signature is trusted.
func (s *Service) Verify(ctx context.Context, token string, class Class) (*Claims, error) {
	if class == Access {
		revoked, err := s.blacklist.Contains(ctx, token)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrRevoked
		}
	}

	secret := s.accessSecret
	if class == Refresh {
		secret = s.refreshSecret
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid {
		return nil, ErrSignatureInvalid
	}
	return claims, nil
}

// Refresh verifies a refresh token and mints a new access token carrying the
// same subject and permission snapshot. The refresh token is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.Verify(ctx, refreshToken, Refresh)
	if err != nil {
		return "", err
	}
	return s.sign(claims.ID, claims.Permissions, s.accessSecret, s.accessExpire)
}

// Revoke blacklists an access token for the remainder of its lifetime. The
// entry dies with the token's own expiry, so nothing outlives its use.
func (s *Service) Revoke(ctx context.Context, token string) error {
	ttl := s.accessExpire
	if claims, err := s.Verify(ctx, token, Access); err == nil {
		if remaining := time.Until(time.Unix(claims.ExpiresAt, 0)); remaining > 0 {
			ttl = remaining
		}
	}
	return s.blacklist.Add(ctx, token, ttl)
}

func (s *Service) sign(subjectID string, perms []string, secret []byte, expire time.Duration) (string, error) {
	claims := &Claims{
		ID:          subjectID,
		Permissions: perms,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(expire).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func classify(err error) error {
	var vErr *jwt.ValidationError
	if errors.As(err, &vErr) {
		switch {
		case vErr.Errors&jwt.ValidationErrorExpired != 0:
			return ErrExpired
		case vErr.Errors&jwt.ValidationErrorMalformed != 0:
			return ErrMalformed
		case vErr.Errors&jwt.ValidationErrorSignatureInvalid != 0:
			return ErrSignatureInvalid
		}
	}
	return ErrSignatureInvalid
}
