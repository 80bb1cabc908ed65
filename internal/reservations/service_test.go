package reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{ MemoryStore }

var errBackend = unavailable("test", errors.New("backend down"))

func (*brokenStore) FindByPhone(context.Context, string) ([]Record, error) { return nil, errBackend }
func (*brokenStore) Append(context.Context, Record) error { return errBackend }
func (*brokenStore) Delete(context.Context, Key) (bool, error) { return false, errBackend }

func TestServiceCreateStampsRecord(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 20, 10, 11, 12, 0, time.UTC) }

	r := sampleRecord()
	r.Timestamp = ""
	r.Status = ""
	created, err := svc.Create(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-20 10:11:12", created.Timestamp)
	assert.Equal(t, StatusConfirmed, created.Status)

	all, _ := store.FindAll(context.Background())
	assert.Equal(t, []Record{created}, all)
}

func TestServiceHasDuplicate(t *testing.T) {
	r := sampleRecord()
	svc := NewService(NewMemoryStore(r), nil)
	ctx := context.Background()

	dup, err := svc.HasDuplicate(ctx, "jane doe ", r.Phone, r.Date, r.Time)
	require.NoError(t, err)
	assert.True(t, dup)

	for _, tc := range []struct{ name, phone, date, clock string }{
		{"John Doe", r.Phone, r.Date, r.Time},
		{r.Name, "0790000000", r.Date, r.Time},
		{r.Name, r.Phone, "Tuesday, June 24, 2025", r.Time},
		{r.Name, r.Phone, r.Date, "8:00 PM"},
	} {
		dup, err := svc.HasDuplicate(ctx, tc.name, tc.phone, tc.date, tc.clock)
		require.NoError(t, err)
		assert.False(t, dup, "%+v", tc)
	}
}

func TestServiceCancelExactMatch(t *testing.T) {
	r := sampleRecord()
	store := NewMemoryStore(r)
	svc := NewService(store, nil)
	ctx := context.Background()

	ok, err := svc.Cancel(ctx, Key{Phone: "0771234560", Date: r.Date, Time: r.Time})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Cancel(ctx, KeyOf(r))
	require.NoError(t, err)
	assert.True(t, ok)

	left, _ := svc.ListConfirmed(ctx, r.Phone)
	assert.Empty(t, left)
}

func TestServiceResolve(t *testing.T) {
	first := sampleRecord()
	second := first
	second.Date = "Tuesday, June 24, 2025"
	ctx := context.Background()

	t.Run("exact", func(t *testing.T) {
		svc := NewService(NewMemoryStore(first, second), nil)
		got, ok, err := svc.Resolve(ctx, first.Phone, second.Date, second.Time)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, second, got)

		_, ok, err = svc.Resolve(ctx, first.Phone, second.Date, "9:00 PM")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("single booking without date or time", func(t *testing.T) {
		svc := NewService(NewMemoryStore(first), nil)
		got, ok, err := svc.Resolve(ctx, first.Phone, "", "")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, first, got)
	})

	t.Run("date narrows the candidates", func(t *testing.T) {
		svc := NewService(NewMemoryStore(first, second), nil)
		got, ok, err := svc.Resolve(ctx, first.Phone, first.Date, "")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, first, got)
	})

	t.Run("ambiguous", func(t *testing.T) {
		svc := NewService(NewMemoryStore(first, second), nil)
		_, ok, err := svc.Resolve(ctx, first.Phone, "", first.Time)
		assert.ErrorIs(t, err, ErrAmbiguous)
		assert.False(t, ok)
	})

	t.Run("no bookings", func(t *testing.T) {
		svc := NewService(NewMemoryStore(), nil)
		_, ok, err := svc.Resolve(ctx, first.Phone, "", "")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestServicePropagatesBackendErrors(t *testing.T) {
	svc := NewService(&brokenStore{}, nil)
	ctx := context.Background()

	_, err := svc.HasDuplicate(ctx, "Jane", "0771234567", "d", "t")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = svc.Create(ctx, sampleRecord())
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = svc.Cancel(ctx, KeyOf(sampleRecord()))
	assert.ErrorIs(t, err, ErrUnavailable)
	_, _, err = svc.Resolve(ctx, "0771234567", "", "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewServiceRequiresStore(t *testing.T) {
	assert.Panics(t, func() { NewService(nil, nil) })
}
