package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobuffalo/validate/v3"

	"github.com/silinternational/claims-settlement-api/api"
)

// Model validation tool
var mValidate *validator.Validate

var fieldValidators = map[string]func(validator.FieldLevel) bool{
	"claimStatus":     validateClaimStatus,
	"damageSeverity":  validateDamageSeverity,
	"damageType":      validateDamageType,
	"inspectionStage": validateInspectionStage,
	"reporterRole":    validateReporterRole,
}

func validateModel(m any) *validate.Errors {
	vErrs := validate.NewErrors()

	if err := mValidate.Struct(m); err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			vErrs.Add(err.StructNamespace(), err.Error())
		}
	}
	return vErrs
}

// flattenPopErrors - pop validation errors are complex structures, this flattens them to a simple string
func flattenPopErrors(popErrs *validate.Errors) string {
	var msgs []string
	for key, val := range popErrs.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", key, strings.Join(val, ", ")))
	}
	msg := strings.Join(msgs, " |")
	return msg
}

func validateClaimStatus(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.ClaimStatus); ok {
		_, valid := ValidClaimStatus[value]
		return valid
	}
	return false
}

func validateDamageType(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.DamageType); ok {
		_, valid := ValidDamageTypes[value]
		return valid
	}
	return false
}

func validateDamageSeverity(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.DamageSeverity); ok {
		return value.Rank() > 0
	}
	return false
}

func validateInspectionStage(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.InspectionStage); ok {
		return value == api.InspectionStageCheckIn || value == api.InspectionStageCheckOut
	}
	return false
}

func validateReporterRole(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.ReporterRole); ok {
		return value == api.ReporterRoleOwner || value == api.ReporterRoleRenter
	}
	return false
}

// claimStructLevelValidation enforces that the two lock fields are either both set or both empty, and that a
// locked claim is in processing
func claimStructLevelValidation(sl validator.StructLevel) {
	claim, ok := sl.Current().Interface().(Claim)
	if !ok {
		panic("claimStructLevelValidation registered to a type other than Claim")
	}

	if claim.LockedAt.Valid != claim.LockedBy.Valid {
		sl.ReportError(claim.LockedBy, "locked_by", "LockedBy", "lock_fields_must_match", "")
	}

	if claim.LockedAt.Valid && claim.Status != api.ClaimStatusProcessing {
		sl.ReportError(claim.Status, "status", "Status", "locked_claim_must_be_processing", "")
	}

	if claim.Status == api.ClaimStatusPaid && !claim.ProcessedAt.Valid {
		sl.ReportError(claim.ProcessedAt, "processed_at", "ProcessedAt", "processed_at_required", "")
	}
}

func riskPolicyStructLevelValidation(sl validator.StructLevel) {
	policy, ok := sl.Current().Interface().(RiskPolicy)
	if !ok {
		panic("riskPolicyStructLevelValidation registered to a type other than RiskPolicy")
	}

	if policy.MaxDailyRate != 0 && policy.MaxDailyRate < policy.MinDailyRate {
		sl.ReportError(policy.MaxDailyRate, "max_daily_rate", "MaxDailyRate", "max_daily_rate_below_min", "")
	}
}

func bookingStructLevelValidation(sl validator.StructLevel) {
	booking, ok := sl.Current().Interface().(Booking)
	if !ok {
		panic("bookingStructLevelValidation registered to a type other than Booking")
	}

	if booking.EndsAt.Before(booking.StartsAt) {
		sl.ReportError(booking.EndsAt, "ends_at", "EndsAt", "ends_before_start", "")
	}
}
