package notifiers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

var _ ports.Notifier = (*Email)(nil)

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

type Email struct {
	cfg  config.EmailConfig
	send SendMailFunc
}

func NewEmail(cfg config.EmailConfig, send SendMailFunc) *Email {
	if send == nil {
		send = smtp.SendMail
	}
	return &Email{cfg: cfg, send: send}
}

func (e *Email) Name() string { return "email" }

func (e *Email) Send(_ context.Context, n models.Notification) error {
	msg, err := e.compose(n)
	if err != nil {
		return domainErrors.ErrNotificationFailed.WithError(err).WithContext("channel", e.Name())
	}

	var auth sasl.Client
	if e.cfg.Username != "" {
		auth = sasl.NewPlainClient("", e.cfg.Username, e.cfg.Password)
	}
	addr := net.JoinHostPort(e.cfg.Host, strconv.Itoa(e.cfg.Port))
	if err := e.send(addr, auth, e.cfg.From, e.cfg.To, bytes.NewReader(msg)); err != nil {
		return domainErrors.ErrNotificationFailed.WithError(err).
			WithContext("channel", e.Name()).
			WithContext("server", addr)
	}
	return nil
}

var emailBody = template.Must(template.New("email").Parse(`<html>
<body>
<h2>{{.Title}}</h2>
<p>{{.Body}}</p>
{{- if .Fields}}
<ul>
{{- range .Fields}}
<li><strong>{{.Key}}:</strong> {{.Value}}</li>
{{- end}}
</ul>
{{- end}}
<p><small>Sent by gravitycommit at {{.Sent}}</small></p>
</body>
</html>
`))

type detailField struct{ Key, Value string }

func (e *Email) compose(n models.Notification) ([]byte, error) {
	sent := n.Time
	if sent.IsZero() {
		sent = time.Now()
	}

	var body bytes.Buffer
	err := emailBody.Execute(&body, struct {
		Title, Body, Sent string
		Fields            []detailField
	}{n.Title, n.Body, sent.Format("2006-01-02 15:04:05"), sortedFields(n.Fields)})
	if err != nil {
		return nil, err
	}

	subject := n.Title
	if n.Project != "" {
		subject = fmt.Sprintf("[%s] %s", n.Project, n.Title)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", e.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(e.cfg.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Date: %s\r\n", sent.Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(strings.ReplaceAll(body.String(), "\n", "\r\n"))
	return msg.Bytes(), nil
}

func sortedFields(fields map[string]string) []detailField {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]detailField, 0, len(keys))
	for _, k := range keys {
		out = append(out, detailField{Key: k, Value: fields[k]})
	}
	return out
}
