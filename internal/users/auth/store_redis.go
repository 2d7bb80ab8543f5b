// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/polyakovda/yamdb/internal/platform/apperr"
	"github.com/polyakovda/yamdb/internal/platform/constants"
)

// # Confirmation Code Repository

// RedisConfirmationCodeRepository implements ConfirmationCodeRepository using Redis.
//
// Only the bcrypt hash of the code ever touches Redis, so a compromised
// instance does not leak usable credentials.
type RedisConfirmationCodeRepository struct {
	client *redis.Client
}

// NewConfirmationCodeRepository creates a new Redis-backed ConfirmationCodeRepository.
func NewConfirmationCodeRepository(client *redis.Client) *RedisConfirmationCodeRepository {
	return &RedisConfirmationCodeRepository{client: client}
}

/*
Set stores (or replaces) the confirmation code hash for a username.

Description: Deliberately written WITHOUT a TTL. A code remains valid until
it is consumed or superseded by a repeat signup request.

Parameters:
  - context: context.Context
  - username: string
  - codeHash: string (bcrypt hash)

Returns:
  - error: Execution errors
*/
func (repository *RedisConfirmationCodeRepository) Set(context context.Context, username, codeHash string) error {
	key := constants.RedisPrefixConfirmationCode + username

	if err := repository.client.Set(context, key, codeHash, 0).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the confirmation code hash for a username.

Description: Returns apperr.NotFound if no code has been issued or it was
already consumed.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - string: The stored bcrypt hash
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisConfirmationCodeRepository) Get(context context.Context, username string) (string, error) {
	key := constants.RedisPrefixConfirmationCode + username

	codeHash, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Confirmation code")
		}
		return "", fmt.Errorf("redis_confirmation_code_get_failed: %w", err)
	}

	return codeHash, nil
}

/*
Delete removes the confirmation code hash after a successful exchange.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisConfirmationCodeRepository) Delete(context context.Context, username string) error {
	key := constants.RedisPrefixConfirmationCode + username

	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_delete_failed: %w", err)
	}

	return nil
}
