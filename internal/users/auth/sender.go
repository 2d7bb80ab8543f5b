// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package auth

import (
	"context"
	"log/slog"
)

// # Code Delivery

// CodeSender delivers a confirmation code to a user out-of-band.
//
// The production implementation would hand off to an email provider; the
// interface keeps the service testable and the transport swappable.
type CodeSender interface {
	Send(ctx context.Context, email, username, code string) error
}

// LogSender writes confirmation codes to the structured log instead of
// sending email. Suitable for development and CI environments.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the confirmation code at INFO level.
func (sender *LogSender) Send(ctx context.Context, email, username, code string) error {
	sender.logger.InfoContext(ctx, "confirmation_code_issued",
		slog.String("email", email),
		slog.String("username", username),
		slog.String("code", code),
	)
	return nil
}
