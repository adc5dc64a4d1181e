package models

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gobuffalo/events"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/log"
)

// DB is a connection to the database to be used throughout the application.
var DB *pop.Connection

const (
	ClaimStatusChangeCreated    = "Created"
	ClaimStatusChangeLocked     = "Settlement started by "
	ClaimStatusChangeUnlocked   = "Settlement ended"
	ClaimStatusChangeExpired    = "Settlement lock expired"
	ClaimStatusChangePaid       = "Paid"
	ClaimStatusChangeReconciled = "Guarantee fund payout reconciled"

	FieldClaimStatus     = "Status"
	FieldClaimLockedBy   = "LockedBy"
	FieldClaimReconciled = "ReconciliationRequired"
)

type Creatable interface {
	Create(*pop.Connection) error
}

func init() {
	var err error
	env := domain.Env.GoEnv
	DB, err = pop.Connect(env)
	if err != nil {
		log.Errorf("error connecting to database ... %v", err)
		stdlog.Fatal(err)
	}
	pop.Debug = env == domain.EnvDevelopment

	// initialize model validation library
	mValidate = validator.New()

	// register custom validators for custom types
	for tag, vFunc := range fieldValidators {
		if err = mValidate.RegisterValidation(tag, vFunc, false); err != nil {
			stdlog.Fatal(fmt.Errorf("failed to register validation for %s: %s", tag, err))
		}
	}

	// register struct-level validators
	mValidate.RegisterStructValidation(claimStructLevelValidation, Claim{})
	mValidate.RegisterStructValidation(riskPolicyStructLevelValidation, RiskPolicy{})
	mValidate.RegisterStructValidation(bookingStructLevelValidation, Booking{})
}

// CurrentActor retrieves the gateway-authenticated caller from the context.
func CurrentActor(ctx context.Context) api.Actor {
	actor, _ := ctx.Value(domain.ContextKeyActor).(api.Actor)
	return actor
}

// Tx retrieves the database transaction from the context, falling back to DB when there is none
func Tx(ctx context.Context) *pop.Connection {
	tx, ok := ctx.Value(domain.ContextKeyTx).(*pop.Connection)
	if !ok || tx == nil {
		return DB
	}
	return tx
}

func fieldByName(i any, name ...string) reflect.Value {
	if len(name) < 1 {
		return reflect.Value{}
	}
	f := reflect.ValueOf(i).Elem().FieldByName(name[0])
	if !f.IsValid() {
		return fieldByName(i, name[1:]...)
	}
	return f
}

func create(tx *pop.Connection, m any) error {
	uuidField := fieldByName(m, "ID")
	if uuidField.IsValid() && uuidField.Interface().(uuid.UUID).Version() == 0 {
		uuidField.Set(reflect.ValueOf(domain.GetUUID()))
	}

	valErrs, err := tx.ValidateAndCreate(m)
	if err != nil {
		return appErrorFromDB(err, api.ErrorCreateFailure)
	}

	if valErrs.HasAny() {
		return api.NewAppError(
			errors.New(flattenPopErrors(valErrs)),
			api.ErrorValidation,
			api.CategoryUser,
		)
	}
	return nil
}

func appErrorFromDB(err error, defaultKey api.ErrorKey) error {
	if err == nil {
		return nil
	}

	var appErr *api.AppError
	if errors.As(err, &appErr) {
		return err
	}

	appErr = api.NewAppError(err, defaultKey, api.CategoryInternal)

	if !domain.IsOtherThanNoRows(err) {
		appErr.Category = api.CategoryNotFound
		appErr.Key = api.ErrorNoRows
		return appErr
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		appErr.Err = fmt.Errorf("%w Detail: %s", err, pgError.Detail)

		switch pgError.Code {
		case pgerrcode.ForeignKeyViolation:
			appErr.Key = api.ErrorForeignKeyViolation
			appErr.Category = api.CategoryUser
		case pgerrcode.UniqueViolation:
			appErr.Key = api.ErrorUniqueKeyViolation
			appErr.Category = api.CategoryUser
		}
	}

	return appErr
}

func isUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation
}

// find loads a record by ID, reporting false rather than an error when there is none
func find(tx *pop.Connection, m any, id uuid.UUID) (bool, error) {
	err := tx.Find(m, id)
	if err == nil {
		return true, nil
	}
	if !domain.IsOtherThanNoRows(err) {
		return false, nil
	}
	return false, appErrorFromDB(err, api.ErrorQueryFailure)
}

// This can include an event payload, which is a map[string]any
func emitEvent(e events.Event) {
	if err := events.Emit(e); err != nil {
		log.Errorf("error emitting event %s ... %v", e.Kind, err)
	}
}

func convertUUIDToAPI(id nulls.UUID) *uuid.UUID {
	if id.Valid {
		return &id.UUID
	}
	return nil
}

func convertTimeToAPI(t nulls.Time) *time.Time {
	if t.Valid {
		tt := t.Time.UTC()
		return &tt
	}
	return nil
}
