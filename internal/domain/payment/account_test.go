package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestAccount(t *testing.T, name string, priority int) *Account {
	account, err := NewAccount(name, "Maria Perez", true, true, priority)
	require.NoError(t, err)
	return account
}

func limitOf(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func goodsRequest(t *testing.T, amount float64) TransactionRequest {
	req, err := NewTransactionRequest(TransactionTypeGoods, decimal.NewFromFloat(amount))
	require.NoError(t, err)
	return req
}

// backdate rewinds the reset stamp so usage can be simulated in the past
func backdate(account *Account, to time.Time) {
	account.LastResetDate = startOfDay(to)
}

func TestNewTransactionRequest(t *testing.T) {
	t.Run("accepts valid input", func(t *testing.T) {
		req, err := NewTransactionRequest(TransactionTypeRemittance, decimal.NewFromInt(50))
		require.NoError(t, err)
		assert.Equal(t, TransactionTypeRemittance, req.Type)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewTransactionRequest(TransactionType("CRYPTO"), decimal.NewFromInt(50))
		assert.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewTransactionRequest(TransactionTypeGoods, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestNewAccount(t *testing.T) {
	t.Run("creates enabled account with zeroed counters", func(t *testing.T) {
		account := createTestAccount(t, "Zelle Main", 1)

		assert.True(t, account.Enabled)
		assert.True(t, account.CurrentDailyAmount.IsZero())
		assert.True(t, account.CurrentMonthlyAmount.IsZero())
		assert.Nil(t, account.LastUsedAt)
		assert.Len(t, account.GetDomainEvents(), 1)
	})

	t.Run("rejects account with no capability", func(t *testing.T) {
		_, err := NewAccount("Zelle Main", "Maria Perez", false, false, 1)
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewAccount("", "Maria Perez", true, false, 1)
		assert.Error(t, err)
	})
}

func TestAccount_SetLimits(t *testing.T) {
	account := createTestAccount(t, "Zelle Main", 1)

	t.Run("accepts nil limits as unbounded", func(t *testing.T) {
		require.NoError(t, account.SetLimits(nil, nil, nil))
		assert.True(t, account.CanAccept(goodsRequest(t, 1000000), time.Now()))
	})

	t.Run("rejects non-positive limit", func(t *testing.T) {
		zero := decimal.Zero
		assert.Error(t, account.SetLimits(&zero, nil, nil))
	})
}

func TestAccount_CanAccept(t *testing.T) {
	now := time.Now()

	t.Run("disabled account never accepts", func(t *testing.T) {
		account := createTestAccount(t, "Zelle Main", 1)
		account.Disable()
		assert.False(t, account.CanAccept(goodsRequest(t, 1), now))
	})

	t.Run("capability must match", func(t *testing.T) {
		account, err := NewAccount("Goods Only", "Maria Perez", true, false, 1)
		require.NoError(t, err)

		remit, err := NewTransactionRequest(TransactionTypeRemittance, decimal.NewFromInt(10))
		require.NoError(t, err)

		assert.True(t, account.CanAccept(goodsRequest(t, 10), now))
		assert.False(t, account.CanAccept(remit, now))
	})

	t.Run("security limit caps below daily limit", func(t *testing.T) {
		account := createTestAccount(t, "Zelle Main", 1)
		require.NoError(t, account.SetLimits(limitOf(500), nil, limitOf(100)))

		assert.True(t, account.CanAccept(goodsRequest(t, 100), now))
		assert.False(t, account.CanAccept(goodsRequest(t, 101), now))
	})

	t.Run("monthly limit enforced independently", func(t *testing.T) {
		account := createTestAccount(t, "Zelle Main", 1)
		require.NoError(t, account.SetLimits(nil, limitOf(200), nil))
		require.NoError(t, account.RecordUsage(decimal.NewFromInt(150), now))

		assert.True(t, account.CanAccept(goodsRequest(t, 50), now))
		assert.False(t, account.CanAccept(goodsRequest(t, 51), now))
	})

	t.Run("stale daily counter treated as reset", func(t *testing.T) {
		yesterday := now.Add(-24 * time.Hour)
		account := createTestAccount(t, "Zelle Main", 1)
		require.NoError(t, account.SetLimits(limitOf(100), nil, nil))
		backdate(account, yesterday)
		require.NoError(t, account.RecordUsage(decimal.NewFromInt(90), yesterday))

		// 90 used yesterday does not count against today
		assert.True(t, account.CanAccept(goodsRequest(t, 100), now))
	})
}

func TestAccount_RecordUsage(t *testing.T) {
	now := time.Now()

	t.Run("increments both counters and stamps last use", func(t *testing.T) {
		account := createTestAccount(t, "Zelle Main", 1)
		require.NoError(t, account.SetLimits(limitOf(100), limitOf(1000), nil))

		require.NoError(t, account.RecordUsage(decimal.NewFromInt(40), now))

		assert.True(t, account.CurrentDailyAmount.Equal(decimal.NewFromInt(40)))
		assert.True(t, account.CurrentMonthlyAmount.Equal(decimal.NewFromInt(40)))
		require.NotNil(t, account.LastUsedAt)
		assert.Equal(t, now, *account.LastUsedAt)
	})

	t.Run("never overdrafts the daily ceiling", func(t *testing.T) {
		account := createTestAccount(t, "Zelle Main", 1)
		require.NoError(t, account.SetLimits(limitOf(100), nil, nil))
		require.NoError(t, account.RecordUsage(decimal.NewFromInt(90), now))

		err := account.RecordUsage(decimal.NewFromInt(20), now)
		assert.Error(t, err)
		assert.True(t, account.CurrentDailyAmount.Equal(decimal.NewFromInt(90)))
	})

	t.Run("daily reset before increment", func(t *testing.T) {
		yesterday := now.Add(-24 * time.Hour)
		account := createTestAccount(t, "Zelle Main", 1)
		require.NoError(t, account.SetLimits(limitOf(100), nil, nil))
		backdate(account, yesterday)
		require.NoError(t, account.RecordUsage(decimal.NewFromInt(80), yesterday))

		require.NoError(t, account.RecordUsage(decimal.NewFromInt(10), now))

		// 10, not 90: yesterday's usage was swept by the rollover
		assert.True(t, account.CurrentDailyAmount.Equal(decimal.NewFromInt(10)))
	})

	t.Run("monthly counter survives a daily rollover within the month", func(t *testing.T) {
		first := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		second := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

		account := createTestAccount(t, "Zelle Main", 1)
		backdate(account, first)
		require.NoError(t, account.RecordUsage(decimal.NewFromInt(30), first))
		require.NoError(t, account.RecordUsage(decimal.NewFromInt(20), second))

		assert.True(t, account.CurrentDailyAmount.Equal(decimal.NewFromInt(20)))
		assert.True(t, account.CurrentMonthlyAmount.Equal(decimal.NewFromInt(50)))
	})

	t.Run("monthly counter resets on new calendar month", func(t *testing.T) {
		endOfMonth := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
		newMonth := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

		account := createTestAccount(t, "Zelle Main", 1)
		backdate(account, endOfMonth)
		require.NoError(t, account.RecordUsage(decimal.NewFromInt(30), endOfMonth))
		require.NoError(t, account.RecordUsage(decimal.NewFromInt(20), newMonth))

		assert.True(t, account.CurrentMonthlyAmount.Equal(decimal.NewFromInt(20)))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		account := createTestAccount(t, "Zelle Main", 1)
		assert.Error(t, account.RecordUsage(decimal.Zero, now))
	})
}

func TestAccount_ResetCounters(t *testing.T) {
	now := time.Now()

	t.Run("no-op when already reset today", func(t *testing.T) {
		account := createTestAccount(t, "Zelle Main", 1)
		assert.False(t, account.ResetCounters(now))
	})

	t.Run("zeroes daily counter for stale account", func(t *testing.T) {
		yesterday := now.Add(-24 * time.Hour)
		account := createTestAccount(t, "Zelle Main", 1)
		backdate(account, yesterday)
		require.NoError(t, account.RecordUsage(decimal.NewFromInt(80), yesterday))

		assert.True(t, account.ResetCounters(now))
		assert.True(t, account.CurrentDailyAmount.IsZero())
	})
}

func TestAccount_ApplyUpdate(t *testing.T) {
	t.Run("applies fields and replaces limits", func(t *testing.T) {
		account := createTestAccount(t, "Zelle Main", 1)
		require.NoError(t, account.SetLimits(limitOf(100), limitOf(1000), nil))

		holder := "Ana Ruiz"
		priority := 4
		require.NoError(t, account.ApplyUpdate(AccountUpdate{
			Holder:        &holder,
			MonthlyLimit:  limitOf(3000),
			PriorityOrder: &priority,
		}))

		assert.Equal(t, "Ana Ruiz", account.Holder)
		assert.Equal(t, 4, account.PriorityOrder)
		assert.Nil(t, account.DailyLimit, "omitted limit is cleared")
		require.NotNil(t, account.MonthlyLimit)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		account := createTestAccount(t, "Zelle Main", 1)
		empty := ""
		assert.Error(t, account.ApplyUpdate(AccountUpdate{Name: &empty}))
	})
}

func TestAccount_VersionAdvancesOncePerMutation(t *testing.T) {
	now := time.Now()
	account := createTestAccount(t, "Zelle Main", 1)
	require.Equal(t, 1, account.GetVersion(), "fresh aggregate starts at 1")

	require.NoError(t, account.RecordUsage(decimal.NewFromInt(10), now))
	assert.Equal(t, 2, account.GetVersion())

	account.Disable()
	assert.Equal(t, 3, account.GetVersion())

	account.Enable()
	assert.Equal(t, 4, account.GetVersion())

	require.NoError(t, account.ApplyUpdate(AccountUpdate{}))
	assert.Equal(t, 5, account.GetVersion())

	// Usage recorded across a day boundary folds the rollover and the
	// increment into a single version step.
	yesterday := now.Add(-24 * time.Hour)
	account.LastResetDate = startOfDay(yesterday)
	require.NoError(t, account.RecordUsage(decimal.NewFromInt(5), now))
	assert.Equal(t, 6, account.GetVersion())
}
