// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package ctxutil

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polyakovda/yamdb/internal/platform/sec"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
}

func TestRequestID_MissingIsEmpty(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestLogger_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), GetLogger(context.Background()))
}

func TestLogger_RoundTrip(t *testing.T) {
	logger := slog.Default().With(slog.String("request_id", "req-123"))
	ctx := WithLogger(context.Background(), logger)

	assert.Same(t, logger, GetLogger(ctx))
}

func TestAuthUser_AnonymousIsNil(t *testing.T) {
	assert.Nil(t, GetAuthUser(context.Background()))
}

func TestAuthUser_RoundTrip(t *testing.T) {
	claims := &sec.AuthClaims{UserID: 7, Username: "reader42", Role: "user"}
	ctx := WithAuthUser(context.Background(), claims)

	got := GetAuthUser(ctx)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "reader42", got.Username)
}
