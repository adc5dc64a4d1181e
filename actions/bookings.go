package actions

import (
	"errors"

	"github.com/gobuffalo/buffalo"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
)

// swagger:operation GET /bookings/{id}/damage-suggestions Bookings BookingsDamageSuggestions
//
// BookingsDamageSuggestions
//
// compare the check-in and check-out inspections of a booking and suggest the damage items of a claim,
// with estimated costs. The suggestions are advisory.
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: booking ID
// responses:
//   '200':
//     description: suggested damage items
//     schema:
//       "$ref": "#/definitions/DamageSuggestions"
func bookingsDamageSuggestions(c buffalo.Context) error {
	id, err := getParticipatingBookingID(c)
	if err != nil {
		return reportError(c, err)
	}

	suggestions, err := svc.SuggestDamages(c, id)
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, suggestions)
}

// swagger:operation GET /bookings/{id}/inspection-check Bookings BookingsInspectionCheck
//
// BookingsInspectionCheck
//
// report which of the check-in and check-out inspections are missing for a booking
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: booking ID
// responses:
//   '200':
//     description: inspection check
//     schema:
//       "$ref": "#/definitions/InspectionCheck"
func bookingsInspectionCheck(c buffalo.Context) error {
	id, err := getParticipatingBookingID(c)
	if err != nil {
		return reportError(c, err)
	}

	check, err := svc.Validator().ValidateInspections(c, id)
	if err != nil {
		return reportError(c, api.NewAppError(err, api.ErrorQueryFailure, api.CategoryDatabase))
	}
	return renderOk(c, check)
}

// swagger:operation POST /bookings/{id}/waterfall-simulation Bookings BookingsWaterfallSimulation
//
// BookingsWaterfallSimulation
//
// preview how an amount would be collected for a booking, without touching any funding source
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: booking ID
// - name: simulation input
//   in: body
//   description: amount in reference-currency cents
//   required: true
//   schema:
//     "$ref": "#/definitions/SimulationInput"
// responses:
//   '200':
//     description: eligibility and estimated breakdown
//     schema:
//       "$ref": "#/definitions/SimulationResult"
func bookingsWaterfallSimulation(c buffalo.Context) error {
	id, err := getParticipatingBookingID(c)
	if err != nil {
		return reportError(c, err)
	}

	var input api.SimulationInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	result, err := svc.SimulateWaterfall(c, id, input.Amount)
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, result)
}

// getParticipatingBookingID returns the booking named in the route if the actor is its renter, the owner of
// its car, or an admin
func getParticipatingBookingID(c buffalo.Context) (uuid.UUID, error) {
	id, err := getUUIDParam(c, "id")
	if err != nil {
		return uuid.Nil, err
	}

	tx := models.Tx(c)
	var booking models.Booking
	found, err := booking.FindByID(tx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if !found {
		err := errors.New("booking " + id.String() + " not found")
		return uuid.Nil, api.NewAppError(err, api.ErrorBookingNotFound, api.CategoryNotFound)
	}

	actor := models.CurrentActor(c)
	if actor.HasRole(domain.RoleAdmin) || actor.ID == booking.RenterID {
		return id, nil
	}

	var car models.Car
	if _, err := car.FindByID(tx, booking.CarID); err != nil {
		return uuid.Nil, err
	}
	if actor.ID == car.OwnerID {
		return id, nil
	}

	err = errors.New("actor is not a participant of booking " + id.String())
	return uuid.Nil, api.NewAppError(err, api.ErrorBookingNotFound, api.CategoryForbidden)
}
