package api

import (
	"maps"
	"net/http"
	"regexp"
	"strings"

	"github.com/gobuffalo/buffalo"

	"github.com/silinternational/claims-settlement-api/domain"
)

const (
	ResourceSubmit  = "submit"
	ResourceReview  = "review"
	ResourceApprove = "approve"
	ResourceReject  = "reject"
	ResourceProcess = "process"
)

type ErrorKey string

func (e ErrorKey) String() string {
	return string(e)
}

type ErrorCategory string

func (e ErrorCategory) String() string {
	return string(e)
}

// AppError is the error type returned to API clients and reported to the log
type AppError struct {
	Err error `json:"-"`

	// stable identifier clients can match on
	Key ErrorKey `json:"key"`

	HttpStatus int `json:"status"`

	// detailed error message for debugging
	DebugMsg string `json:"debug_msg,omitempty"`

	Category ErrorCategory `json:"-"`

	Message string `json:"message"`

	// only included in development
	Extras map[string]any `json:"extras,omitempty"`
}

func (a *AppError) Error() string {
	if a.Err == nil {
		return ""
	}
	return a.Err.Error()
}

func (a *AppError) Unwrap() error {
	return a.Err
}

// NewAppError returns a new AppError with its Err, Key and Category set
func NewAppError(err error, key ErrorKey, category ErrorCategory) *AppError {
	return &AppError{
		Err:      err,
		Key:      key,
		Category: category,
	}
}

// HTTP status for each error category. Forbidden reads as NotFound so that callers can't probe for claims
// they may not see.
var categoryStatus = map[ErrorCategory]int{
	CategoryInternal:     http.StatusInternalServerError,
	CategoryDatabase:     http.StatusInternalServerError,
	CategoryExternal:     http.StatusBadGateway,
	CategoryForbidden:    http.StatusNotFound,
	CategoryNotFound:     http.StatusNotFound,
	CategoryUnauthorized: http.StatusUnauthorized,
	CategoryConflict:     http.StatusConflict,
	CategoryUser:         http.StatusBadRequest,
}

// SetHttpStatusFromCategory fills in HttpStatus from the Category unless a status is already set
func (a *AppError) SetHttpStatusFromCategory() {
	if a.HttpStatus != 0 {
		return
	}
	status, ok := categoryStatus[a.Category]
	if !ok {
		status = http.StatusBadRequest
	}
	a.HttpStatus = status
}

// LoadTranslatedMessage sets Message from the locale entry "Error.<Key>". Server-side failures (5xx) all
// get the generic message.
func (a *AppError) LoadTranslatedMessage(c buffalo.Context) {
	key := a.Key
	if a.HttpStatus >= http.StatusInternalServerError {
		key = ErrorGenericInternalServer
	}

	a.Message = keyToReadableString(key.String())
	if domain.T == nil {
		return
	}

	msgID := "Error." + key.String()
	if translated := domain.T.Translate(c, msgID, a.Extras); translated != msgID {
		a.Message = translated
	}
}

var capitalizedWord = regexp.MustCompile(`[A-Z][^A-Z]*`)

// keyToReadableString turns ErrorClaimLockedElsewhere into "Claim locked elsewhere"
func keyToReadableString(key string) string {
	words := capitalizedWord.FindAllString(key, -1)
	if len(words) > 1 && words[0] == "Error" {
		words = words[1:]
	}
	if len(words) == 0 {
		return key
	}

	for i := range words[1:] {
		words[i+1] = strings.ToLower(words[i+1])
	}
	return strings.Join(words, " ")
}

// MergeExtras combines error extras into one map. Later maps win on duplicate keys.
func MergeExtras(extras []map[string]any) map[string]any {
	merged := map[string]any{}
	for _, e := range extras {
		maps.Copy(merged, e)
	}
	return merged
}
