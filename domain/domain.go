package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gobuffalo/envy"
	mwi18n "github.com/gobuffalo/mw-i18n/v2"
	"github.com/gofrs/uuid"
	"github.com/kelseyhightower/envconfig"
)

// T is the Buffalo i18n translator
var T *mwi18n.Translator

// Context keys
const (
	ContextKeyActor  = "current_actor"
	ContextKeyExtras = "extras"
	ContextKeyTx     = "tx"

	EventPayloadID       = "id"
	EventPayloadWarnings = "warnings"

	TypeBooking = "bookings"
	TypeClaim   = "claims"
)

// Environment names, as found in GO_ENV
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvStaging     = "staging"
	EnvTest        = "test"
)

// Roles delivered by the API gateway in the X-User-Roles header
const (
	RoleAdmin = "admin"
)

const (
	CurrencyFactor = 100
	DateFormat     = "2006-01-02"

	ContentCSV  = "text/csv"
	ContentJson = "application/json"

	DurationDay = time.Hour * 24

	// ClaimFrequencyWindow is the trailing window used by the anti-fraud frequency heuristics
	ClaimFrequencyWindow = DurationDay * 30
)

// Event Kinds
const (
	EventApiClaimCreated      = "api:claim:created"
	EventApiClaimFraudWarning = "api:claim:fraudwarning"
	EventApiClaimRejected     = "api:claim:rejected"
	EventApiClaimPaid         = "api:claim:paid"
	EventApiClaimReconcile    = "api:claim:reconcile"
	EventApiClaimLockExpired  = "api:claim:lockexpired"
)

// Env holds the values of environment variables
var Env struct {
	GoEnv      string `ignored:"true"`
	AppName    string `default:"Claims Settlement" split_words:"true"`
	ServerPort int    `default:"3000" split_words:"true"`
	UIURL      string `default:"http://missing.ui.url"`

	SessionSecret string `default:"change-this-session-secret" split_words:"true"`

	ListenerDelayMilliseconds int `default:"1000" split_words:"true"`
	ListenerMaxRetries        int `default:"10" split_words:"true"`

	RiskServiceURL         string `default:"http://risk-service" split_words:"true"`
	PaymentsServiceURL     string `default:"http://payments-service" split_words:"true"`
	ServiceToken           string `default:"" split_words:"true"`
	ExternalTimeoutSeconds int    `default:"15" split_words:"true"`

	ClaimLockTimeoutMinutes int `default:"15" split_words:"true"`
	StaleLockSweepMinutes   int `default:"5" split_words:"true"`
	FundReconcileMinutes    int `default:"60" split_words:"true"`

	FraudMaxClaims30d   int `default:"5" envconfig:"FRAUD_MAX_CLAIMS_30D"`
	FraudWarnClaims30d  int `default:"2" envconfig:"FRAUD_WARN_CLAIMS_30D"`
	FraudLateReportDays int `default:"7" split_words:"true"`

	// The following will be multiplied by CurrencyFactor in readEnv()
	FraudHighValueClaim int `default:"5000" split_words:"true"`

	ReferenceCurrency  string `default:"USD" split_words:"true"`
	SettlementCurrency string `default:"COP" split_words:"true"`

	AwsRegion          string `split_words:"true"`
	AwsAccessKeyID     string `split_words:"true"`
	AwsSecretAccessKey string `split_words:"true"`
	EmailFromAddress   string `default:"no_reply@example.com" split_words:"true"`
	EmailService       string `default:"ses" split_words:"true"`
	OperationsEmail    string `default:"" split_words:"true"`

	// ledger batch archive; archiving is skipped when no bucket is set
	AwsS3Bucket         string `default:"" envconfig:"AWS_S3_BUCKET"`
	AwsS3Endpoint       string `default:"" envconfig:"AWS_S3_ENDPOINT"`
	AwsS3DisableSSL     bool   `default:"false" envconfig:"AWS_S3_DISABLE_SSL"`
	AwsS3URLLifeMinutes int    `default:"60" envconfig:"AWS_S3_URL_LIFE_MINUTES"`

	FiscalStartMonth     int    `default:"1" split_words:"true"`
	FinanceProvider      string `default:"sage" split_words:"true"`
	NetSuiteSubsidiary   string `default:"" envconfig:"NETSUITE_SUBSIDIARY"`
	FundAccount          string `default:"" split_words:"true"`
	ClaimsExpenseAccount string `default:"" split_words:"true"`
}

func init() {
	readEnv()
}

// readEnv loads environment data into `Env`
func readEnv() {
	err := envconfig.Process("", &Env)
	if err != nil {
		log.Fatal(errors.New("error loading env vars: " + err.Error()))
	}

	Env.FraudHighValueClaim *= CurrencyFactor

	// Doing this separately to avoid needing two environment variables for the same thing
	Env.GoEnv = envy.Get("GO_ENV", EnvDevelopment)

	if IsProduction() && Env.ServiceToken == "" {
		log.Fatal(errors.New("SERVICE_TOKEN is required in production"))
	}
}

// ClaimLockTimeout is how long a settlement lock may be held before the sweeper releases it
func ClaimLockTimeout() time.Duration {
	return time.Duration(Env.ClaimLockTimeoutMinutes) * time.Minute
}

// ExternalTimeout bounds each call to the risk and payments services
func ExternalTimeout() time.Duration {
	return time.Duration(Env.ExternalTimeoutSeconds) * time.Second
}

// EmailFromAddress combines a name with the configured from address for use in an email From header. If name is nil,
// only the App Name will be used.
func EmailFromAddress(name *string) string {
	addr := Env.AppName + " <" + Env.EmailFromAddress + ">"
	if name != nil {
		addr = *name + " via " + addr
	}
	return addr
}

// GetUUID creates a new, unique version 4 (random) UUID and returns it
// as a uuid.UUID. Errors are ignored.
func GetUUID() uuid.UUID {
	id, err := uuid.NewV4()
	if err != nil {
		log.Printf("error creating new uuid ... %v", err)
	}
	return id
}

// IsOtherThanNoRows returns false if the error is nil or is just reporting that there
// were no rows in the result set for a sql query.
func IsOtherThanNoRows(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, sql.ErrNoRows) || strings.Contains(err.Error(), sql.ErrNoRows.Error()) {
		return false
	}

	return true
}

// IsStringInSlice iterates over a slice of strings, looking for the given
// string. If found, true is returned. Otherwise, false is returned.
func IsStringInSlice(needle string, haystack []string) bool {
	for _, hs := range haystack {
		if needle == hs {
			return true
		}
	}

	return false
}

// RandomInsecureIntInRange is insecure because it only uses the math.rand package
// and not the crypto/rand package
func RandomInsecureIntInRange(min, max int) int {
	if min >= max {
		panic("invalid parameters to RandomInsecureIntInRange: max of range must be greater than min.")
	}
	return rand.Intn(max-min+1) + min // #nosec G404
}

func IsProduction() bool {
	return Env.GoEnv == EnvProduction
}

// NewExtra sets a new key-value pair in the `extras` entry of the context, if the context carries one
func NewExtra(ctx context.Context, key string, e any) {
	setter, ok := ctx.(interface {
		Value(any) any
		Set(string, any)
	})
	if !ok {
		return
	}

	extras, _ := setter.Value(ContextKeyExtras).(map[string]any)
	if extras == nil {
		extras = map[string]any{}
	}
	extras[key] = e
	setter.Set(ContextKeyExtras, extras)
}

// CallerLocation reports "dir/file.go:line pkg.Func" for the stack frame `skip` levels above it
func CallerLocation(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	name := "?"
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = filepath.Base(fn.Name())
	}
	return fmt.Sprintf("%s:%d %s", filepath.Join(filepath.Base(filepath.Dir(file)), filepath.Base(file)), line, name)
}

func BeginningOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func EndOfMonth(date time.Time) time.Time {
	return BeginningOfMonth(date).AddDate(0, 1, -1)
}
