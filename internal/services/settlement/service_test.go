package settlement

import (
	"context"
	"sync"
	"testing"
	"time"

	"pagcore/internal/models"
	"pagcore/internal/repositories"
	"pagcore/internal/services/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memTokenStore is an in-memory TokenRepository whose TransitionState is a
// mutex-guarded compare-and-set, mirroring the conditional UPDATE the real
// repository issues.
type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*models.QRToken
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]*models.QRToken)}
}

func (m *memTokenStore) Create(_ context.Context, t *models.QRToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tokens[t.Code] = &cp
	return nil
}

func (m *memTokenStore) GetByCode(_ context.Context, code string) (*models.QRToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[code]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTokenStore) TransitionState(_ context.Context, code string, from, to models.TokenState) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[code]
	if !ok || t.State != from {
		return false, nil
	}
	t.State = to
	return true, nil
}

func (m *memTokenStore) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, t := range m.tokens {
		if t.State == models.TokenStateActive && now.After(t.ExpiresAt) {
			t.State = models.TokenStateExpired
			n++
		}
	}
	return n, nil
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Transfer(ctx context.Context, in ledger.TransferInput) (*models.Transaction, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

type stubDirectory struct{}

func (stubDirectory) DisplayName(_ context.Context, userID uint) (string, string, error) {
	return "Maria Silva", "maria.silva", nil
}

func completedTx(in ledger.TransferInput) *models.Transaction {
	return &models.Transaction{
		Type:       in.Type,
		SenderID:   in.FromID,
		ReceiverID: in.ToID,
		Amount:     in.Amount,
		Status:     models.TransactionStatusCompleted,
	}
}

func newTestService(store repositories.TokenRepository, lg Ledger, opts ...Option) Service {
	return NewService(store, lg, stubDirectory{}, opts...)
}

func amt(v float64) *float64 { return &v }

func TestIssueToken(t *testing.T) {
	store := newMemTokenStore()
	svc := newTestService(store, new(mockLedger))

	t.Run("bound amount", func(t *testing.T) {
		tok, err := svc.IssueToken(context.Background(), 1, amt(50))
		require.NoError(t, err)
		assert.Equal(t, models.TokenStateActive, tok.State)
		assert.Equal(t, 50.0, *tok.Amount)
		assert.NotEmpty(t, tok.Code)
		assert.True(t, tok.ExpiresAt.After(time.Now()))
	})

	t.Run("open amount", func(t *testing.T) {
		tok, err := svc.IssueToken(context.Background(), 1, nil)
		require.NoError(t, err)
		assert.Nil(t, tok.Amount)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, err := svc.IssueToken(context.Background(), 1, amt(0))
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = svc.IssueToken(context.Background(), 1, amt(-5))
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestGetTokenDetails(t *testing.T) {
	store := newMemTokenStore()
	svc := newTestService(store, new(mockLedger))

	tok, err := svc.IssueToken(context.Background(), 7, amt(25))
	require.NoError(t, err)

	t.Run("active token", func(t *testing.T) {
		details, err := svc.GetTokenDetails(context.Background(), tok.Code)
		require.NoError(t, err)
		assert.Equal(t, uint(7), details.OwnerID)
		assert.Equal(t, "Maria Silva", details.OwnerName)
		assert.Equal(t, "maria.silva", details.OwnerUsername)
		assert.Equal(t, 25.0, *details.Amount)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.GetTokenDetails(context.Background(), "deadbeef")
		assert.ErrorIs(t, err, ErrTokenNotFound)
	})
}

func TestGetTokenDetails_LazyExpiry(t *testing.T) {
	store := newMemTokenStore()
	now := time.Now()
	clock := now
	svc := newTestService(store, new(mockLedger), WithClock(func() time.Time { return clock }))

	tok, err := svc.IssueToken(context.Background(), 7, amt(25))
	require.NoError(t, err)

	// Readable any number of times before expiry.
	for i := 0; i < 3; i++ {
		_, err = svc.GetTokenDetails(context.Background(), tok.Code)
		require.NoError(t, err)
	}

	clock = now.Add(DefaultTokenTTL + time.Second)

	_, err = svc.GetTokenDetails(context.Background(), tok.Code)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// The read flipped the stored state.
	stored, err := store.GetByCode(context.Background(), tok.Code)
	require.NoError(t, err)
	assert.Equal(t, models.TokenStateExpired, stored.State)

	// Expired at redemption too, no matter what was read before.
	_, err = svc.RedeemToken(context.Background(), tok.Code, 2, nil)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRedeemToken(t *testing.T) {
	t.Run("bound token succeeds and is single use", func(t *testing.T) {
		store := newMemTokenStore()
		lg := new(mockLedger)
		svc := newTestService(store, lg)

		tok, err := svc.IssueToken(context.Background(), 1, amt(50))
		require.NoError(t, err)

		lg.On("Transfer", mock.Anything, mock.MatchedBy(func(in ledger.TransferInput) bool {
			return in.FromID == 2 && in.ToID == 1 && in.Amount == 50
		})).Return(completedTx(ledger.TransferInput{FromID: 2, ToID: 1, Amount: 50, Type: models.TransactionTypeQRPayment}), nil).Once()

		tx, err := svc.RedeemToken(context.Background(), tok.Code, 2, nil)
		require.NoError(t, err)
		assert.Equal(t, 50.0, tx.Amount)

		_, err = svc.RedeemToken(context.Background(), tok.Code, 3, nil)
		assert.ErrorIs(t, err, ErrAlreadyRedeemed)

		lg.AssertExpectations(t)
	})

	t.Run("self redemption rejected without transfer", func(t *testing.T) {
		store := newMemTokenStore()
		lg := new(mockLedger)
		svc := newTestService(store, lg)

		tok, err := svc.IssueToken(context.Background(), 1, amt(50))
		require.NoError(t, err)

		_, err = svc.RedeemToken(context.Background(), tok.Code, 1, nil)
		assert.ErrorIs(t, err, ErrSelfRedemption)

		stored, _ := store.GetByCode(context.Background(), tok.Code)
		assert.Equal(t, models.TokenStateActive, stored.State)
		lg.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
	})

	t.Run("open token requires amount", func(t *testing.T) {
		store := newMemTokenStore()
		lg := new(mockLedger)
		svc := newTestService(store, lg)

		tok, err := svc.IssueToken(context.Background(), 1, nil)
		require.NoError(t, err)

		_, err = svc.RedeemToken(context.Background(), tok.Code, 2, nil)
		assert.ErrorIs(t, err, ErrAmountRequired)

		lg.On("Transfer", mock.Anything, mock.MatchedBy(func(in ledger.TransferInput) bool {
			return in.Amount == 30
		})).Return(completedTx(ledger.TransferInput{FromID: 2, ToID: 1, Amount: 30}), nil).Once()

		_, err = svc.RedeemToken(context.Background(), tok.Code, 2, amt(30))
		require.NoError(t, err)

		_, err = svc.RedeemToken(context.Background(), tok.Code, 2, amt(30))
		assert.ErrorIs(t, err, ErrAlreadyRedeemed)
	})

	t.Run("bound token rejects mismatched amount", func(t *testing.T) {
		store := newMemTokenStore()
		svc := newTestService(store, new(mockLedger))

		tok, err := svc.IssueToken(context.Background(), 1, amt(50))
		require.NoError(t, err)

		_, err = svc.RedeemToken(context.Background(), tok.Code, 2, amt(20))
		assert.ErrorIs(t, err, ErrAmountMismatch)
	})

	t.Run("ledger failure reverts token to active", func(t *testing.T) {
		store := newMemTokenStore()
		lg := new(mockLedger)
		svc := newTestService(store, lg)

		tok, err := svc.IssueToken(context.Background(), 1, amt(50))
		require.NoError(t, err)

		lg.On("Transfer", mock.Anything, mock.Anything).
			Return(nil, assert.AnError).Once()

		_, err = svc.RedeemToken(context.Background(), tok.Code, 2, nil)
		assert.ErrorIs(t, err, assert.AnError)

		stored, _ := store.GetByCode(context.Background(), tok.Code)
		assert.Equal(t, models.TokenStateActive, stored.State)

		// A later attempt can still succeed.
		lg.On("Transfer", mock.Anything, mock.Anything).
			Return(completedTx(ledger.TransferInput{FromID: 2, ToID: 1, Amount: 50}), nil).Once()
		_, err = svc.RedeemToken(context.Background(), tok.Code, 2, nil)
		require.NoError(t, err)
	})
}

func TestRedeemToken_ConcurrentExactlyOnce(t *testing.T) {
	store := newMemTokenStore()
	lg := new(mockLedger)
	svc := newTestService(store, lg)

	tok, err := svc.IssueToken(context.Background(), 1, amt(50))
	require.NoError(t, err)

	lg.On("Transfer", mock.Anything, mock.Anything).
		Return(completedTx(ledger.TransferInput{ToID: 1, Amount: 50}), nil)

	const redeemers = 8
	errs := make([]error, redeemers)
	var wg sync.WaitGroup
	for i := 0; i < redeemers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RedeemToken(context.Background(), tok.Code, uint(i+2), nil)
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			assert.ErrorIs(t, err, ErrAlreadyRedeemed)
			losses++
		}
	}
	assert.Equal(t, 1, wins, "exactly one redeemer must win")
	assert.Equal(t, redeemers-1, losses)
	lg.AssertNumberOfCalls(t, "Transfer", 1)
}

func TestCancelToken(t *testing.T) {
	store := newMemTokenStore()
	svc := newTestService(store, new(mockLedger))

	tok, err := svc.IssueToken(context.Background(), 1, amt(50))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CancelToken(context.Background(), tok.Code, 2), ErrNotOwner)

	require.NoError(t, svc.CancelToken(context.Background(), tok.Code, 1))

	_, err = svc.RedeemToken(context.Background(), tok.Code, 2, nil)
	assert.ErrorIs(t, err, ErrTokenCancelled)
}

func TestExpireSweep(t *testing.T) {
	store := newMemTokenStore()
	now := time.Now()
	clock := now
	svc := newTestService(store, new(mockLedger), WithClock(func() time.Time { return clock }))

	_, err := svc.IssueToken(context.Background(), 1, amt(10))
	require.NoError(t, err)
	_, err = svc.IssueToken(context.Background(), 1, amt(20))
	require.NoError(t, err)

	clock = now.Add(DefaultTokenTTL + time.Minute)
	n, err := svc.ExpireSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
