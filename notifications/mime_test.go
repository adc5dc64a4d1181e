package notifications

import (
	"bytes"
	"os"
	"strings"

	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/log"
)

func (ts *TestSuite) TestRawEmail() {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stdout)

	raw := string(rawEmail(
		"to@example.com",
		domain.Env.EmailFromAddress,
		"test subject",
		`<h4>body</h4><p>End of body</p>`))

	ts.True(strings.HasPrefix(raw, "From: "+domain.Env.EmailFromAddress+"\nTo: to@example.com\n"))
	ts.Contains(raw, "Subject: test subject\n")
	ts.Contains(raw, "Content-Type: text/plain; charset=utf-8")
	ts.Contains(raw, "Content-Type: text/html; charset=utf-8")
	ts.Contains(raw, "<h4>body</h4>")
	ts.Contains(raw, "End of body")

	ts.Equal("", buf.String(), "Got an unexpected error log entry")
}
