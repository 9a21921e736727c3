package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sirenecole/admin-console/internal/core/ports"
)

// OTPStore keeps one-time codes with an expiry.
// Key format: otp:<telephone>
type OTPStore struct {
	client redis.Cmdable
}

func NewOTPStore(client redis.Cmdable) *OTPStore {
	return &OTPStore{client: client}
}

// Put stores code, replacing any pending one for telephone.
func (o *OTPStore) Put(ctx context.Context, telephone, code string, ttl time.Duration) error {
	if err := o.client.Set(ctx, otpKey(telephone), code, ttl).Err(); err != nil {
		return fmt.Errorf("otp put: %w", err)
	}
	return nil
}

// Consume reads and deletes the pending code in one step, so a code can be
// used only once.
func (o *OTPStore) Consume(ctx context.Context, telephone string) (string, bool, error) {
	code, err := o.client.GetDel(ctx, otpKey(telephone)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("otp consume: %w", err)
	}
	return code, true, nil
}

func otpKey(telephone string) string {
	return fmt.Sprintf("otp:%s", telephone)
}

var _ ports.OTPStore = (*OTPStore)(nil)
