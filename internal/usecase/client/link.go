package client

import (
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
)

// LinkSigner issues and checks the signed questionnaire links sent to
// clients. The token carries the client id as subject.
type LinkSigner struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

func NewLinkSigner(secret, baseURL string, ttl time.Duration, now func() time.Time) *LinkSigner {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &LinkSigner{
		secret:  []byte(secret),
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		now:     now,
	}
}

func (s *LinkSigner) Token(clientID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": clientID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"typ": "questionnaire",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Link returns the public URL of the questionnaire of clientID.
func (s *LinkSigner) Link(clientID string) (string, error) {
	token, err := s.Token(clientID)
	if err != nil {
		return "", err
	}
	return s.baseURL + "/" + url.PathEscape(clientID) + "?token=" + url.QueryEscape(token), nil
}

// ClientID validates token and returns the client it was issued for.
func (s *LinkSigner) ClientID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", httperr.ErrValidation("invalid_token", "")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != "questionnaire" {
		return "", httperr.ErrValidation("invalid_token_claims", "")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", httperr.ErrValidation("invalid_token_payload", "")
	}
	return sub, nil
}
