package api

const (
	CategoryDatabase     = ErrorCategory("Database")
	CategoryUser         = ErrorCategory("User") // used for errors related to user input, validation, etc.
	CategoryForbidden    = ErrorCategory("Forbidden")
	CategoryUnauthorized = ErrorCategory("Unauthorized")
	CategoryNotFound     = ErrorCategory("NotFound")
	CategoryConflict     = ErrorCategory("Conflict")
	CategoryExternal     = ErrorCategory("External") // a collaborating service failed or misbehaved
	CategoryInternal     = ErrorCategory("Internal") // used for internal server errors, not related to bad user input
)

const (
	// General

	ErrorCreateFailure         = ErrorKey("ErrorCreateFailure")
	ErrorGenericInternalServer = ErrorKey("ErrorGenericInternalServer")
	ErrorForeignKeyViolation   = ErrorKey("ErrorForeignKeyViolation")
	ErrorInvalidRequestBody    = ErrorKey("ErrorInvalidRequestBody")
	ErrorMustBeAValidUUID      = ErrorKey("ErrorMustBeAValidUUID")
	ErrorNoRows                = ErrorKey("ErrorNoRows")
	ErrorNotAuthorized         = ErrorKey("ErrorNotAuthorized")
	ErrorQueryFailure          = ErrorKey("ErrorQueryFailure")
	ErrorSaveFailure           = ErrorKey("ErrorSaveFailure")
	ErrorUniqueKeyViolation    = ErrorKey("ErrorUniqueKeyViolation")
	ErrorUnknown               = ErrorKey("ErrorUnknown")
	ErrorUpdateFailure         = ErrorKey("ErrorUpdateFailure")
	ErrorValidation            = ErrorKey("ErrorValidation")

	// Authentication
	ErrorMissingActor = ErrorKey("ErrorMissingActor")

	// Authorization
	ErrorInvalidResourceID = ErrorKey("ErrorInvalidResourceID")
	ErrorResourceNotFound  = ErrorKey("ErrorResourceNotFound")

	// Booking
	ErrorBookingNotFound = ErrorKey("ErrorBookingNotFound")

	// Claim
	ErrorClaimNotFound            = ErrorKey("ErrorClaimNotFound")
	ErrorClaimStatus              = ErrorKey("ErrorClaimStatus")
	ErrorClaimMissingDamages      = ErrorKey("ErrorClaimMissingDamages")
	ErrorClaimMissingInspections  = ErrorKey("ErrorClaimMissingInspections")
	ErrorClaimFraudBlocked        = ErrorKey("ErrorClaimFraudBlocked")
	ErrorClaimReporterNotInvolved = ErrorKey("ErrorClaimReporterNotInvolved")

	// Settlement
	ErrorClaimLocked            = ErrorKey("ErrorClaimLocked")
	ErrorClaimTerminal          = ErrorKey("ErrorClaimTerminal")
	ErrorClaimIneligible        = ErrorKey("ErrorClaimIneligible")
	ErrorClaimDependencyMissing = ErrorKey("ErrorClaimDependencyMissing")
	ErrorClaimProcessing        = ErrorKey("ErrorClaimProcessing")
	ErrorInvalidAmount          = ErrorKey("ErrorInvalidAmount")

	// Damage estimates
	ErrorInvalidDamageType     = ErrorKey("ErrorInvalidDamageType")
	ErrorInvalidDamageSeverity = ErrorKey("ErrorInvalidDamageSeverity")

	// External services
	ErrorRiskService     = ErrorKey("ErrorRiskService")
	ErrorPaymentsService = ErrorKey("ErrorPaymentsService")
)
