package actions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gobuffalo/buffalo"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/log"
)

func registerCustomErrorHandler(app *buffalo.App) {
	app.ErrorHandlers[http.StatusInternalServerError] = customErrorHandler
	app.ErrorHandlers[http.StatusNotFound] = notFoundHandler
}

func customErrorHandler(status int, origErr error, c buffalo.Context) error {
	log.WithFields(log.Fields{
		"status": status,
		"method": c.Request().Method,
		"URI":    c.Request().RequestURI,
	}).Error(origErr)

	if domain.Env.GoEnv == domain.EnvDevelopment {
		debug.PrintStack()
	}

	appError := api.AppError{
		HttpStatus: status,
		Key:        api.ErrorGenericInternalServer,
		Message:    "An internal system error has occurred",
	}
	if domain.Env.GoEnv != domain.EnvProduction {
		appError.DebugMsg = fmt.Sprintf("(%T) %s", origErr, origErr)
	}
	return writeErrorJSON(c, status, appError)
}

func notFoundHandler(status int, origErr error, c buffalo.Context) error {
	return writeErrorJSON(c, status, api.AppError{
		HttpStatus: status,
		Key:        api.ErrorResourceNotFound,
		Message:    "resource not found",
	})
}

func writeErrorJSON(c buffalo.Context, status int, appError api.AppError) error {
	c.Response().Header().Set("content-type", domain.ContentJson)
	c.Response().WriteHeader(status)
	return json.NewEncoder(c.Response()).Encode(&appError)
}
