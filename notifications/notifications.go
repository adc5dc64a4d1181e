package notifications

import (
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/log"
)

var notifiers []Notifier

func init() {
	email := EmailNotifier{} // The type of sender is determined by domain.Env.EmailService
	notifiers = append(notifiers, &email)
}

// Send loops through the notifiers and calls each of their Send functions
func Send(msg Message) error {
	for _, n := range notifiers {
		if err := n.Send(msg); err != nil {
			return err
		}
		log.Infof("%T: '%s' message sent to '%s'", n, msg.Subject, msg.ToEmail)
	}

	return nil
}

// SendToOperations sends the message to the operations mailbox, if one is configured
func SendToOperations(msg Message) error {
	if domain.Env.OperationsEmail == "" {
		log.Warningf("no operations email configured, '%s' message not sent", msg.Subject)
		return nil
	}
	msg.ToName = domain.Env.AppName + " Operations"
	msg.ToEmail = domain.Env.OperationsEmail
	return Send(msg)
}
