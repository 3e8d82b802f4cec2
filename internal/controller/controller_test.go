package controller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursedesk/coursedesk/internal/models"
	"github.com/coursedesk/coursedesk/internal/notify"
	"github.com/coursedesk/coursedesk/pkg/config"
	appErrors "github.com/coursedesk/coursedesk/pkg/errors"
)

func testStudents() []models.Student {
	return []models.Student{
		{ID: 1, StudentID: "S1", FirstName: "Alice", LastName: "Nguyen", Email: "alice@example.com"},
		{ID: 2, StudentID: "S2", FirstName: "Bob", LastName: "Okafor", Email: "bob@example.com"},
		{ID: 3, StudentID: "S3", FirstName: "Carol", LastName: "Ngata", Email: "carol@uni.edu"},
	}
}

func staticLoader(items []models.Student) Loader[models.Student] {
	return func(ctx context.Context) ([]models.Student, error) {
		return items, nil
	}
}

func newNotifier() *notify.Scheduler {
	return notify.NewScheduler(config.NotifyConfig{SuccessTTL: time.Minute, ErrorTTL: time.Minute}, nil)
}

func TestLoadReplacesCollection(t *testing.T) {
	c := New("students", staticLoader(testStudents()), nil, nil)

	require.NoError(t, c.Load(context.Background()))

	assert.Len(t, c.Collection(), 3)
	assert.Len(t, c.Visible(), 3)
	assert.False(t, c.Loading())
	assert.NoError(t, c.Err())
}

func TestLoadFailureKeepsPriorData(t *testing.T) {
	var fail atomic.Bool
	loader := func(ctx context.Context) ([]models.Student, error) {
		if fail.Load() {
			return nil, appErrors.ErrTransport
		}
		return testStudents(), nil
	}
	c := New("students", loader, nil, nil)
	require.NoError(t, c.Load(context.Background()))

	fail.Store(true)
	err := c.Load(context.Background())

	require.Error(t, err)
	assert.Error(t, c.Err())
	// Transient failure must not flash an empty list.
	assert.Len(t, c.Collection(), 3)
}

func TestOverlappingLoadsLastInitiatedWins(t *testing.T) {
	stale := []models.Student{{ID: 99, FirstName: "Stale", Email: "stale@example.com"}}
	fresh := testStudents()

	firstGate := make(chan struct{})
	secondGate := make(chan struct{})
	var calls atomic.Int32
	loader := func(ctx context.Context) ([]models.Student, error) {
		switch calls.Add(1) {
		case 1:
			<-firstGate
			return stale, nil
		default:
			<-secondGate
			return fresh, nil
		}
	}
	c := New("students", loader, nil, nil)

	go c.Load(context.Background()) //nolint:errcheck
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	go c.Load(context.Background()) //nolint:errcheck
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond)

	// The second (most recent) load resolves first and owns the state.
	close(secondGate)
	require.Eventually(t, func() bool { return len(c.Collection()) == 3 }, time.Second, time.Millisecond)
	assert.False(t, c.Loading())

	// The first load resolves late; its stale result must be discarded.
	close(firstGate)
	assert.Never(t, func() bool {
		col := c.Collection()
		return len(col) == 1 && col[0].ID == 99
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestSetFilterDerivesVisibleView(t *testing.T) {
	c := New("students", staticLoader(testStudents()), nil, nil)
	require.NoError(t, c.Load(context.Background()))

	tests := []struct {
		name   string
		filter string
		want   []int64
	}{
		{name: "empty filter shows everything", filter: "", want: []int64{1, 2, 3}},
		{name: "case-insensitive name match", filter: "ALICE", want: []int64{1}},
		{name: "substring over several fields", filter: "ng", want: []int64{1, 3}},
		{name: "email domain match", filter: "uni.edu", want: []int64{3}},
		{name: "no match", filter: "zzz", want: []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.SetFilter(tt.filter)
			visible := c.Visible()
			got := make([]int64, 0, len(visible))
			for _, s := range visible {
				got = append(got, s.ID)
			}
			assert.Equal(t, tt.want, got)
			// The filtered view never mutates the source collection.
			assert.Len(t, c.Collection(), 3)
		})
	}
}

func TestUpdatePatchesItemInPlace(t *testing.T) {
	c := New("students", staticLoader(testStudents()), newNotifier(), nil)
	require.NoError(t, c.Load(context.Background()))

	op := func(ctx context.Context) (*models.Student, error) {
		return &models.Student{ID: 2, StudentID: "S2", FirstName: "Robert", LastName: "Okafor", Email: "bob@example.com"}, nil
	}
	require.NoError(t, c.Update(context.Background(), 2, op, "saved"))

	patched, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, "Robert", patched.FirstName)
	assert.Len(t, c.Collection(), 3)
	assert.False(t, c.InFlight(2))
}

func TestUpdateFailureRecordsItemError(t *testing.T) {
	c := New("students", staticLoader(testStudents()), newNotifier(), nil)
	require.NoError(t, c.Load(context.Background()))

	op := func(ctx context.Context) (*models.Student, error) {
		return nil, appErrors.ErrInternal
	}
	err := c.Update(context.Background(), 2, op, "saved")

	require.Error(t, err)
	assert.Error(t, c.ItemErr(2))
	assert.False(t, c.InFlight(2))
	// The collection is untouched on failure.
	original, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, "Bob", original.FirstName)
}

func TestConcurrentMutationSameIDRejected(t *testing.T) {
	c := New("students", staticLoader(testStudents()), nil, nil)
	require.NoError(t, c.Load(context.Background()))

	for _, firstFails := range []bool{false, true} {
		gate := make(chan struct{})
		done := make(chan error, 1)
		op := func(ctx context.Context) (*models.Student, error) {
			<-gate
			if firstFails {
				return nil, appErrors.ErrInternal
			}
			s, _ := c.Get(1)
			return &s, nil
		}

		go func() { done <- c.Update(context.Background(), 1, op, "") }()
		require.Eventually(t, func() bool { return c.InFlight(1) }, time.Second, time.Millisecond)

		// Second mutation for the same id is rejected, not queued.
		err := c.Update(context.Background(), 1, op, "")
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrMutationInFlight.Code))

		close(gate)
		firstErr := <-done
		if firstFails {
			assert.Error(t, firstErr)
		} else {
			assert.NoError(t, firstErr)
		}
		// In-flight is clear after both resolve, success or failure.
		assert.False(t, c.InFlight(1))
	}
}

func TestConcurrentMutationDifferentIDsAllowed(t *testing.T) {
	c := New("students", staticLoader(testStudents()), nil, nil)
	require.NoError(t, c.Load(context.Background()))

	gate := make(chan struct{})
	done := make(chan error, 1)
	slow := func(ctx context.Context) (*models.Student, error) {
		<-gate
		return nil, nil
	}
	go func() { done <- c.Update(context.Background(), 1, slow, "") }()
	require.Eventually(t, func() bool { return c.InFlight(1) }, time.Second, time.Millisecond)

	fast := func(ctx context.Context) (*models.Student, error) { return nil, nil }
	assert.NoError(t, c.Update(context.Background(), 2, fast, ""))

	close(gate)
	assert.NoError(t, <-done)
}

func TestDeleteRemovesItemAndClearsNotification(t *testing.T) {
	notifier := newNotifier()
	c := New("students", staticLoader(testStudents()), notifier, nil)
	require.NoError(t, c.Load(context.Background()))

	notifier.Notify(c.Key(2), notify.KindSuccess, "pending message")

	del := func(ctx context.Context) error { return nil }
	require.NoError(t, c.Delete(context.Background(), 2, nil, del))

	assert.Len(t, c.Collection(), 2)
	_, ok := c.Get(2)
	assert.False(t, ok)
	// The notification must not outlive its subject.
	_, visible := notifier.Message(c.Key(2))
	assert.False(t, visible)
}

func TestCloseDiscardsLateResults(t *testing.T) {
	gate := make(chan struct{})
	loader := func(ctx context.Context) ([]models.Student, error) {
		<-gate
		return testStudents(), nil
	}
	c := New("students", loader, nil, nil)

	done := make(chan error, 1)
	go func() { done <- c.Load(context.Background()) }()
	require.Eventually(t, func() bool { return c.Loading() }, time.Second, time.Millisecond)

	c.Close()
	close(gate)
	assert.NoError(t, <-done)
	assert.Empty(t, c.Collection())
	assert.False(t, c.Loading())
}
