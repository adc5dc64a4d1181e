package actions

import (
	"errors"

	"github.com/gobuffalo/buffalo"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
)

// AdminOnly rejects any actor without the admin role
func AdminOnly(next buffalo.Handler) buffalo.Handler {
	return func(c buffalo.Context) error {
		if !models.CurrentActor(c).HasRole(domain.RoleAdmin) {
			err := errors.New("actor not allowed to perform that action on this resource")
			return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryForbidden))
		}
		return next(c)
	}
}

// canViewClaim allows admins and the reporter of the claim
func canViewClaim(actor api.Actor, claim api.Claim) bool {
	return actor.HasRole(domain.RoleAdmin) || actor.ID == claim.ReportedBy
}
