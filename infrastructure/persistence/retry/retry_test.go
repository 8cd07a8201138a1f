package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"cafeledger/domain/order"
	"cafeledger/domain/shared"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fastConfig() Config {
	config := DefaultConfig
	config.InitialDelay = time.Millisecond
	config.MaxDelay = 5 * time.Millisecond
	config.JitterEnabled = false
	return config
}

func TestIsRetryableError(t *testing.T) {
	config := DefaultConfig

	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"concurrent modification", order.NewConcurrentModificationError("ORD-20260830-AAAA1111"), true},
		{"shared conflict", shared.NewConflictError("loyalty_account", "stale version"), true},
		{"mysql deadlock", &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, true},
		{"mysql lock wait timeout", &mysqlDriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}, true},
		{"mysql duplicate entry", &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, false},
		{"gorm invalid transaction", gorm.ErrInvalidTransaction, true},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, false},
		{"not found", order.NewOrderNotFoundError(42), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryableError(tt.err, config))
		})
	}
}

func TestIsRetryableErrorHonorsSwitches(t *testing.T) {
	config := DefaultConfig
	config.RetryOnConcurrentModification = false
	config.RetryOnDeadlock = false
	config.RetryOnLockTimeout = false

	assert.False(t, IsRetryableError(shared.NewConflictError("order", "stale"), config))
	assert.False(t, IsRetryableError(&mysqlDriver.MySQLError{Number: 1213}, config))
	assert.False(t, IsRetryableError(&mysqlDriver.MySQLError{Number: 1205}, config))
}

func TestIsRetryableErrorCustomPredicate(t *testing.T) {
	config := DefaultConfig
	config.RetryPredicate = func(err error) bool {
		return err.Error() == "flaky"
	}

	assert.True(t, IsRetryableError(errors.New("flaky"), config))
	assert.False(t, IsRetryableError(errors.New("solid"), config))
}

func TestExponentialBackoffCapsAtMaxDelay(t *testing.T) {
	config := Config{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}

	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, config))
	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, config))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoffWithJitter(2, config))
	assert.Equal(t, 400*time.Millisecond, ExponentialBackoffWithJitter(3, config))
	assert.Equal(t, 2*time.Second, ExponentialBackoffWithJitter(10, config), "capped at MaxDelay")
}

func TestExponentialBackoffJitterStaysInBand(t *testing.T) {
	config := Config{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
		JitterEnabled: true,
	}

	for i := 0; i < 50; i++ {
		delay := ExponentialBackoffWithJitter(1, config)
		assert.GreaterOrEqual(t, delay, 80*time.Millisecond)
		assert.LessOrEqual(t, delay, 120*time.Millisecond)
	}
}

func TestExecuteWithRetryRecovers(t *testing.T) {
	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return shared.NewConflictError("order", "stale version")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestExecuteWithRetryStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("constraint violated")
	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts, "non-retryable errors fail fast")
}

func TestExecuteWithRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		return shared.NewConflictError("order", "stale version")
	})

	assert.ErrorIs(t, err, shared.ErrConflict, "the last error comes back when attempts run out")
	assert.Equal(t, DefaultConfig.MaxAttempts, attempts)
}

func TestExecuteWithRetryDisabled(t *testing.T) {
	config := fastConfig()
	config.Enabled = false

	attempts := 0
	err := ExecuteWithRetry(context.Background(), config, func(ctx context.Context) error {
		attempts++
		return shared.NewConflictError("order", "stale version")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestExecuteWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := ExecuteWithRetry(ctx, fastConfig(), func(ctx context.Context) error {
		attempts++
		cancel()
		return shared.NewConflictError("order", "stale version")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}
