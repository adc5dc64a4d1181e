package notifications

import (
	"github.com/silinternational/claims-settlement-api/domain"
)

// values of EMAIL_SERVICE
const (
	EmailServiceSES   = "ses"
	EmailServiceDummy = "dummy"
)

// Notifier delivers a Message over one channel
type Notifier interface {
	Send(msg Message) error
}

// EmailNotifier picks the email backend named by EMAIL_SERVICE at send time. The test environment always
// uses the in-memory service.
type EmailNotifier struct{}

func (e *EmailNotifier) Send(msg Message) error {
	if domain.Env.GoEnv == domain.EnvTest {
		return TestEmailService.Send(msg)
	}
	return emailBackend(domain.Env.EmailService).Send(msg)
}

func emailBackend(name string) EmailService {
	if name == EmailServiceSES {
		return &SES{}
	}
	return &TestEmailService
}
