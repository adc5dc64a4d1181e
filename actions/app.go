// Claims Settlement API
//
// Settles car-rental damage claims through a funds waterfall: card hold capture, wallet security debit and
// the guarantee fund.
//
//	Schemes: https
//	Host: localhost
//	BasePath: /
//	Version: 0.1.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//	- text/csv
//
//	Security:
//	- gateway:
//
//	SecurityDefinitions:
//	gateway:
//	     type: apiKey
//	     name: X-User-ID
//	     in: header
//
// swagger:meta
package actions

import (
	"fmt"
	"net/http"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/buffalo-pop/v3/pop/popmw"
	contenttype "github.com/gobuffalo/mw-contenttype"
	i18n "github.com/gobuffalo/mw-i18n/v2"
	paramlogger "github.com/gobuffalo/mw-paramlogger"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"

	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/gateway"
	"github.com/silinternational/claims-settlement-api/job"
	"github.com/silinternational/claims-settlement-api/listeners"
	"github.com/silinternational/claims-settlement-api/locales"
	"github.com/silinternational/claims-settlement-api/log"
	"github.com/silinternational/claims-settlement-api/models"
	"github.com/silinternational/claims-settlement-api/settlement"
	"github.com/silinternational/claims-settlement-api/waterfall"
)

const (
	idRegex = `/{id:[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}}`
)

var (
	app *buffalo.App

	// svc is the settlement service shared by all handlers
	svc *settlement.Service
)

// App is where all routes and middleware for buffalo
// should be defined. This is the nerve center of your
// application.
//
// Routing, middleware, groups, etc... are declared TOP -> DOWN.
// This means if you add a middleware to `app` *after* declaring a
// group, that group will NOT have that new middleware. The same
// is true of resource declarations as well.
//
// It also means that routes are checked in the order they are declared.
func App() *buffalo.App {
	if app != nil {
		return app
	}

	app = buffalo.New(buffalo.Options{
		Env:    domain.Env.GoEnv,
		Addr:   fmt.Sprintf(":%d", domain.Env.ServerPort),
		Logger: log.BuffaloLogger(),
		PreWares: []buffalo.PreWare{
			cors.New(cors.Options{
				AllowCredentials: true,
				AllowedOrigins:   []string{domain.Env.UIURL},
				AllowedMethods:   []string{"HEAD", "GET", "POST", "PUT", "PATCH", "DELETE"},
				AllowedHeaders:   []string{"*"},
			}).Handler,
		},
		SessionName:  "_claims_settlement_session",
		SessionStore: sessions.NewCookieStore([]byte(domain.Env.SessionSecret)),
	})

	registerCustomErrorHandler(app)

	svc = SettlementService()

	app.Use(log.SentryMiddleware)

	var err error
	domain.T, err = i18n.New(locales.FS(), "en-US")
	if err != nil {
		_ = app.Stop(err)
	}
	app.Use(domain.T.Middleware())

	// Log request parameters (filters apply).
	app.Use(paramlogger.ParameterLogger)

	// Set the request content type to JSON
	app.Use(contenttype.Set(domain.ContentJson))

	// Wraps each request in a transaction, except settlement: its lock writes must be visible to other
	// requests immediately and no transaction may stay open across calls to the payments service
	txMiddleware := popmw.Transaction(models.DB)
	app.Use(txMiddleware)
	app.Middleware.Skip(txMiddleware, claimsProcess)

	app.Use(AuthN)
	app.Middleware.Skip(AuthN, HomeHandler, statusHandler)

	app.GET("/", HomeHandler)
	app.GET("/status", statusHandler)

	// config
	configGroup := app.Group("/config")
	configGroup.GET("/damage-estimates", damageEstimates)
	configGroup.GET("/claim-statuses", claimStatuses)
	configGroup.GET("/risk-policies", riskPolicies)
	app.GET("/damage-estimates", damageEstimates)

	// bookings
	bookingsGroup := app.Group("/" + domain.TypeBooking)
	bookingsGroup.POST(idRegex+"/claims", claimsCreate)
	bookingsGroup.GET(idRegex+"/damage-suggestions", bookingsDamageSuggestions)
	bookingsGroup.GET(idRegex+"/inspection-check", bookingsInspectionCheck)
	bookingsGroup.POST(idRegex+"/waterfall-simulation", bookingsWaterfallSimulation)

	// claims
	claimsGroup := app.Group("/" + domain.TypeClaim)
	claimsGroup.Use(AdminOnly)
	claimsGroup.Middleware.Skip(AdminOnly, claimsView, claimsHistory, claimsSubmit)
	claimsGroup.GET("/", claimsList)
	claimsGroup.GET(idRegex, claimsView)
	claimsGroup.GET(idRegex+"/history", claimsHistory)
	claimsGroup.GET(idRegex+"/eligibility", claimsEligibility)
	claimsGroup.POST(idRegex+"/submit", claimsSubmit)
	claimsGroup.POST(idRegex+"/review", claimsReview)
	claimsGroup.POST(idRegex+"/approve", claimsApprove)
	claimsGroup.POST(idRegex+"/reject", claimsReject)
	claimsGroup.POST(idRegex+"/process", claimsProcess)
	claimsGroup.POST(idRegex+"/reconcile", claimsReconcile)

	// guarantee fund ledger
	ledgerGroup := app.Group("/ledger")
	ledgerGroup.Use(AdminOnly)
	ledgerGroup.GET("/", ledgerList)
	ledgerGroup.POST("/", ledgerReconcile)
	ledgerGroup.GET("/batch", batchesGetLatest)

	listeners.RegisterListeners()
	job.Init(&app.Worker, job.Services{Locks: svc.Locks(), Fund: svc})

	return app
}

// SettlementService wires the settlement orchestrator to the database and to the risk and payments services
func SettlementService() *settlement.Service {
	store := models.NewStore(models.DB)
	fund := models.NewFundLedger(models.DB)
	risk := gateway.NewRiskClient(domain.Env.RiskServiceURL, domain.Env.ServiceToken, nil)
	payments := gateway.NewPaymentsClient(domain.Env.PaymentsServiceURL, domain.Env.ServiceToken, nil)

	return settlement.NewService(settlement.Dependencies{
		Claims:   store,
		Locks:    store,
		Bookings: store,
		Policies: store,
		Risk:     risk,
		Engine:   waterfall.NewEngine(payments, payments, fund),
		Fund:     fund,
	}, settlement.DefaultFraudRules())
}

// swagger:operation GET / HomeHandler
//
// HomeHandler
//
// default handler to serve up a home page
//
// ---
// responses:
//   '200':
//     description: welcome message
func HomeHandler(c buffalo.Context) error {
	return renderOk(c, map[string]string{"message": "Welcome to " + domain.Env.AppName + " API"})
}

// swagger:operation GET /status Status Status
//
// Status
//
// checks the app status
//
// ---
// responses:
//   '204':
//     description: app status is good
func statusHandler(c buffalo.Context) error {
	return c.Render(http.StatusNoContent, nil)
}
