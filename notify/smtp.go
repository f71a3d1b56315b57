// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Default mail service.
const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 587
)

// Type SMTP is a Sender mailing to the account it authenticates as.
type SMTP struct {
	Host     string
	Port     int
	Email    string
	Password string

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP creates an SMTP sender for email on the given service.
func NewSMTP(host string, port int, email, password string) *SMTP {
	return &SMTP{
		Host:     host,
		Port:     port,
		Email:    email,
		Password: password,
		sendMail: smtp.SendMail}
}

// Send implements Sender.  The connection is upgraded with STARTTLS when the
// server offers it.
func (s *SMTP) Send(ctx context.Context, subject, body string) error {
	if e := ctx.Err(); e != nil {
		return e
	}
	send := s.sendMail
	if send == nil {
		send = smtp.SendMail
	}
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	auth := smtp.PlainAuth("", s.Email, s.Password, s.Host)
	if e := send(addr, auth, s.Email, []string{s.Email}, s.message(subject, body)); e != nil {
		return errors.Wrapf(e, "mailing %s via %s", s.Email, addr)
	}
	return nil
}

func (s *SMTP) message(subject, body string) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", s.Email)
	fmt.Fprintf(&sb, "To: %s\r\n", s.Email)
	fmt.Fprintf(&sb, "Subject: %s\r\n\r\n", subject)
	sb.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(sb.String())
}
