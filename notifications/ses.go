package notifications

import (
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"

	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/log"
)

// SES delivers operations notices through Amazon Simple Email Service. A zero value uses a client built
// from the AWS_* environment settings.
type SES struct {
	client sesiface.SESAPI
}

var (
	sesOnce   sync.Once
	sesClient sesiface.SESAPI
	sesErr    error
)

func (s *SES) Send(msg Message) error {
	body, err := renderBody(msg)
	if err != nil {
		return err
	}

	to := addressWithName(msg.ToName, msg.ToEmail)
	from := addressWithName(msg.FromName, msg.FromEmail)

	client := s.client
	if client == nil {
		if client, err = defaultSESClient(); err != nil {
			return fmt.Errorf("unable to create SES client, %w", err)
		}
	}

	id, err := sendRaw(client, from, rawEmail(to, from, msg.Subject, body))
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"template": msg.Template, "message_id": id}).Info("notice sent with SES")
	return nil
}

func addressWithName(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

// sendRaw submits a pre-built MIME message and returns the SES message ID
func sendRaw(client sesiface.SESAPI, from string, data []byte) (string, error) {
	out, err := client.SendRawEmail(&ses.SendRawEmailInput{
		RawMessage: &ses.RawMessage{Data: data},
		Source:     aws.String(from),
	})
	if err != nil {
		return "", fmt.Errorf("SES rejected the message, %w", err)
	}
	return aws.StringValue(out.MessageId), nil
}

func defaultSESClient() (sesiface.SESAPI, error) {
	sesOnce.Do(func() {
		var sess *session.Session
		sess, sesErr = session.NewSession(&aws.Config{
			Credentials: credentials.NewStaticCredentials(domain.Env.AwsAccessKeyID, domain.Env.AwsSecretAccessKey, ""),
			Region:      aws.String(domain.Env.AwsRegion),
		})
		if sesErr == nil {
			sesClient = ses.New(sess)
		}
	})
	return sesClient, sesErr
}
