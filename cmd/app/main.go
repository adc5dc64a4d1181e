package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gobuffalo/buffalo/servers"

	"github.com/silinternational/claims-settlement-api/actions"
	"github.com/silinternational/claims-settlement-api/log"
)

// GitCommitHash is set at build time with -ldflags and reported as the Sentry release
var GitCommitHash string

// main starts the settlement API. TLS is terminated by the gateway in front of it.
func main() {
	log.Init(GitCommitHash)

	srv := servers.Wrap(&http.Server{ReadHeaderTimeout: 15 * time.Second})

	err := actions.App().Serve(srv)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("settlement API stopped, %s", err)
		os.Exit(1)
	}
}
