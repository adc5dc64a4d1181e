package notifications

import (
	"sync"

	"github.com/silinternational/claims-settlement-api/log"
)

// DummyEmailService keeps sent messages in memory, for development and tests
type DummyEmailService struct {
	mutex    sync.Mutex
	messages []dummyMessage
}

var TestEmailService DummyEmailService

type dummyMessage struct {
	subject, body, fromName, fromEmail, toName, toEmail string
}

type DummyMessageInfo struct {
	Subject, ToName, ToEmail string
}

func (t *DummyEmailService) Send(msg Message) error {
	body, err := renderBody(msg)
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Infof("dummy message subject: %s, recipient: %s", msg.Subject, msg.ToName)

	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.messages = append(t.messages, dummyMessage{
		subject:   msg.Subject,
		body:      body,
		fromName:  msg.FromName,
		fromEmail: msg.FromEmail,
		toName:    msg.ToName,
		toEmail:   msg.ToEmail,
	})
	return nil
}

// GetNumberOfMessagesSent returns the number of messages sent since initialization or the last call to
// DeleteSentMessages
func (t *DummyEmailService) GetNumberOfMessagesSent() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.messages)
}

// DeleteSentMessages erases the store of sent messages
func (t *DummyEmailService) DeleteSentMessages() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.messages = nil
}

func (t *DummyEmailService) GetLastToEmail() string {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if len(t.messages) == 0 {
		return ""
	}
	return t.messages[len(t.messages)-1].toEmail
}

func (t *DummyEmailService) GetLastBody() string {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if len(t.messages) == 0 {
		return ""
	}
	return t.messages[len(t.messages)-1].body
}

func (t *DummyEmailService) GetSentMessages() []DummyMessageInfo {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	messages := make([]DummyMessageInfo, len(t.messages))
	for i, m := range t.messages {
		messages[i] = DummyMessageInfo{
			Subject: m.subject,
			ToName:  m.toName,
			ToEmail: m.toEmail,
		}
	}
	return messages
}
