package notifications

import (
	"github.com/silinternational/claims-settlement-api/domain"
)

type Message struct {
	Template  string
	Data      map[string]any
	FromName  string
	FromEmail string
	ToName    string
	ToEmail   string
	Subject   string

	// pre-rendered HTML body, used instead of Template when set
	Body string
}

// NewEmailMessage returns a message with the FromEmail, the Data.appName and Data.uiURL already set
func NewEmailMessage() Message {
	return Message{
		FromEmail: domain.EmailFromAddress(nil),
		Data: map[string]any{
			"appName": domain.Env.AppName,
			"uiURL":   domain.Env.UIURL,
		},
	}
}
