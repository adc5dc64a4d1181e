package notifications

import (
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
)

type fakeSES struct {
	sesiface.SESAPI
	inputs []*ses.SendRawEmailInput
	err    error
}

func (f *fakeSES) SendRawEmail(in *ses.SendRawEmailInput) (*ses.SendRawEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, in)
	return &ses.SendRawEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func (ts *TestSuite) TestSES_Send() {
	client := &fakeSES{}
	s := &SES{client: client}

	msg := Message{
		FromName:  "Claims",
		FromEmail: "claims@example.com",
		ToName:    "Operations",
		ToEmail:   "ops@example.com",
		Subject:   "claim paid",
		Body:      "<p>paid in full</p>",
	}
	ts.NoError(s.Send(msg))
	ts.Len(client.inputs, 1)

	in := client.inputs[0]
	ts.Equal("Claims <claims@example.com>", aws.StringValue(in.Source))
	raw := string(in.RawMessage.Data)
	ts.Contains(raw, "To: Operations <ops@example.com>")
	ts.Contains(raw, "Subject: claim paid")
	ts.Contains(raw, "paid in full")
}

func (ts *TestSuite) TestSES_SendError() {
	s := &SES{client: &fakeSES{err: errors.New("throttled")}}
	err := s.Send(Message{ToEmail: "ops@example.com", Body: "<p>x</p>"})
	ts.Error(err)
	ts.Contains(err.Error(), "throttled")
}

func (ts *TestSuite) Test_addressWithName() {
	ts.Equal("a@example.com", addressWithName("", "a@example.com"))
	ts.Equal("Ann <a@example.com>", addressWithName("Ann", "a@example.com"))
}
