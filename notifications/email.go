package notifications

import (
	"bytes"
	"errors"

	"github.com/gobuffalo/buffalo/render"

	"github.com/silinternational/claims-settlement-api/templates"
)

var EmailRenderer = render.New(render.Options{
	HTMLLayout:  "mail/layout.plush.html",
	TemplatesFS: templates.FS(),
	Helpers:     render.Helpers{},
})

type EmailService interface {
	Send(msg Message) error
}

// renderBody returns the message body, rendering its template when the body is not already set
func renderBody(msg Message) (string, error) {
	if msg.Body != "" {
		return msg.Body, nil
	}

	bodyBuf := &bytes.Buffer{}
	if err := EmailRenderer.HTML("mail/"+msg.Template+".plush.html").Render(bodyBuf, msg.Data); err != nil {
		return "", errors.New("error rendering message body - " + err.Error())
	}
	return bodyBuf.String(), nil
}
