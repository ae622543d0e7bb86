package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

// Authenticator turns a bearer token into a domain.Identity. Name and email
// come from the token when present and from the user directory otherwise;
// directory answers are cached.
type Authenticator struct {
	verifier *Verifier
	users    domain.UserDirectory
	cache    domain.Cache
	ttl      time.Duration
}

func NewAuthenticator(v *Verifier, users domain.UserDirectory, cache domain.Cache, ttl time.Duration) *Authenticator {
	return &Authenticator{verifier: v, users: users, cache: cache, ttl: ttl}
}

func (a *Authenticator) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := a.verifier.Verify(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	id := domain.Identity{UserID: claims.Subject, FirstName: claims.FirstName, Email: claims.Email}
	if id.Email != "" || a.users == nil {
		return id, nil
	}

	key := "idp-user:" + id.UserID
	if a.cache != nil {
		var cached domain.Identity
		if ok, _ := a.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}
	profile, err := a.users.GetUser(ctx, id.UserID)
	if err != nil {
		// the token is valid; a profile outage only loses the snapshot fields
		log.Warn().Err(err).Str("user_id", id.UserID).Msg("identity profile lookup failed")
		return id, nil
	}
	profile.UserID = id.UserID
	if a.cache != nil {
		_ = a.cache.Set(ctx, key, profile, int(a.ttl.Seconds()))
	}
	return profile, nil
}
