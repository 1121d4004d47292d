package session

import (
	"context"
	"net/http"
	"time"

	"github.com/andrebq/abacus/internal/logutil"
)

const (
	CookieName = "token"
)

type (
	Extractor struct {
		codec    *Codec
		denylist Denylist
		secure   bool
	}

	claimsKey byte
)

var (
	ctxClaims = claimsKey(1)
)

// NewExtractor builds an extractor, denylist might be nil in which case
// tokens are never considered revoked.
// secure controls the Secure flag of the cookies it writes.
func NewExtractor(codec *Codec, denylist Denylist, secure bool) *Extractor {
	return &Extractor{codec: codec, denylist: denylist, secure: secure}
}

func (e *Extractor) Codec() *Codec {
	return e.codec
}

// FromRequest returns the claims from the request cookie.
// A missing cookie and an invalid one are indistinguishable to the caller.
func (e *Extractor) FromRequest(r *http.Request) (*Claims, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	claims, err := e.Validate(r.Context(), cookie.Value)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// Validate parses the token and checks it against the denylist.
func (e *Extractor) Validate(ctx context.Context, token string) (*Claims, error) {
	claims, err := e.codec.Parse(token)
	if err != nil {
		return nil, err
	}
	if e.denylist == nil {
		return claims, nil
	}
	revoked, err := e.denylist.Revoked(ctx, claims.ID)
	if err != nil {
		log := logutil.GetOrDefault(ctx)
		log.Error().Err(err).Msg("Unable to check token against denylist")
		return nil, ErrInvalidToken
	} else if revoked {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// Revoke denies the token carried by r until its expiry.
// Requests without a valid token are ignored, a denylist that cannot record
// the revocation is reported as an error.
func (e *Extractor) Revoke(r *http.Request) error {
	if e.denylist == nil {
		return nil
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := e.codec.Parse(cookie.Value)
	if err != nil {
		return nil
	}
	until := time.Now().Add(e.codec.TTL())
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return e.denylist.Revoke(r.Context(), claims.ID, until)
}

func (e *Extractor) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(e.codec.TTL() / time.Second),
		HttpOnly: true,
		Secure:   e.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (e *Extractor) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   e.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxClaims, c)
}

func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxClaims).(*Claims)
	return c, ok && c != nil
}
