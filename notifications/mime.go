package notifications

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"jaytaylor.com/html2text"

	"github.com/silinternational/claims-settlement-api/log"
)

// rawEmail builds a multipart/alternative message carrying the html body and a plain-text rendering of it,
// in that order of preference for the reader's client
func rawEmail(to, from, subject, html string) []byte {
	text, err := html2text.FromString(html)
	if err != nil {
		log.Errorf("unable to derive plain text from html notice, %s", err)
		text = html
	}

	var b bytes.Buffer
	mw := multipart.NewWriter(&b)

	for _, h := range [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", mw.Boundary())},
	} {
		fmt.Fprintf(&b, "%s: %s\n", h[0], h[1])
	}
	b.WriteString("\n")

	writePart(mw, "text/plain", text)
	writePart(mw, "text/html", html)

	if err := mw.Close(); err != nil {
		log.Errorf("unable to terminate MIME message, %s", err)
	}
	return b.Bytes()
}

func writePart(mw *multipart.Writer, contentType, content string) {
	w, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":        {contentType + "; charset=utf-8"},
		"Content-Disposition": {"inline"},
	})
	if err != nil {
		log.Errorf("unable to add %s part, %s", contentType, err)
		return
	}
	_, _ = w.Write([]byte(content))
}
