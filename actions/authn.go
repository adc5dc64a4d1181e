package actions

import (
	"errors"
	"strings"

	"github.com/gobuffalo/buffalo"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/log"
)

// Headers set by the API gateway once it has authenticated the caller
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRoles = "X-User-Roles"
)

// AuthN builds the current actor from the identity headers of the API gateway
func AuthN(next buffalo.Handler) buffalo.Handler {
	return func(c buffalo.Context) error {
		id := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
		if id == "" {
			err := errors.New("no " + HeaderUserID + " header provided")
			return reportError(c, api.NewAppError(err, api.ErrorMissingActor, api.CategoryUnauthorized))
		}

		actorID, err := uuid.FromString(id)
		if err != nil {
			err = errors.New("invalid " + HeaderUserID + " header, not a UUID")
			return reportError(c, api.NewAppError(err, api.ErrorMissingActor, api.CategoryUnauthorized))
		}

		actor := api.Actor{ID: actorID, Roles: parseRoles(c.Request().Header.Get(HeaderUserRoles))}
		c.Set(domain.ContextKeyActor, actor)

		log.SetActor(actorID.String(), actor.Roles)
		domain.NewExtra(c, "actor_id", actorID)
		domain.NewExtra(c, "roles", actor.Roles)
		domain.NewExtra(c, "ip", c.Request().RemoteAddr)

		return next(c)
	}
}

func parseRoles(header string) []string {
	roles := []string{}
	for _, r := range strings.Split(header, ",") {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
