package actions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/buffalo/render"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/log"
)

var r = render.New(render.Options{
	DefaultContentType: domain.ContentJson,
})

// reportError logs an error with details and renders the error with buffalo.Render.
func reportError(c buffalo.Context, err error) error {
	var appErr *api.AppError
	if !errors.As(err, &appErr) {
		appErr = &api.AppError{
			Err:      err,
			Key:      api.ErrorUnknown,
			Category: api.CategoryInternal,
		}
	}
	appErr.SetHttpStatusFromCategory()

	extras := api.MergeExtras([]map[string]any{getExtras(c), appErr.Extras})
	extras["function"] = domain.CallerLocation(2)
	extras["key"] = appErr.Key
	extras["status"] = appErr.HttpStatus
	extras["method"] = c.Request().Method
	extras["URI"] = c.Request().RequestURI
	extras["IP"] = c.Request().RemoteAddr

	l := log.WithFields(extras)
	if appErr.HttpStatus >= http.StatusInternalServerError {
		l.Error(appErr.Error())
	} else {
		l.Warning(appErr.Error())
	}

	if appErr.Message == "" {
		appErr.LoadTranslatedMessage(c)
	}

	// clear out debugging info if not in development or test
	if domain.Env.GoEnv == domain.EnvDevelopment || domain.Env.GoEnv == domain.EnvTest {
		if appErr.Err != nil {
			appErr.DebugMsg = appErr.Err.Error()
		}
	} else {
		appErr.Extras = map[string]any{}
	}

	return c.Render(appErr.HttpStatus, r.JSON(appErr))
}

func getExtras(c buffalo.Context) map[string]any {
	extras, _ := c.Value(domain.ContextKeyExtras).(map[string]any)
	if extras == nil {
		extras = map[string]any{}
	}
	return extras
}

func renderOk(c buffalo.Context, v any) error {
	return c.Render(http.StatusOK, r.JSON(v))
}

func renderCsv(c buffalo.Context, filename string, csvData []byte) error {
	response := c.Response()
	response.Header().Set("Content-Type", domain.ContentCSV)
	response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	response.WriteHeader(http.StatusOK)
	_, err := response.Write(csvData)
	return err
}

// StrictBind hydrates a struct with values from a POST. It rejects fields the struct does not have.
func StrictBind(c buffalo.Context, dest any) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return api.NewAppError(err, api.ErrorInvalidRequestBody, api.CategoryUser)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return api.NewAppError(err, api.ErrorInvalidRequestBody, api.CategoryUser)
	}
	return nil
}

// getUUIDParam parses the named route parameter
func getUUIDParam(c buffalo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.FromString(c.Param(name))
	if err != nil {
		err = fmt.Errorf("invalid %s, not a UUID: %w", name, err)
		return uuid.Nil, api.NewAppError(err, api.ErrorMustBeAValidUUID, api.CategoryUser)
	}
	return id, nil
}
