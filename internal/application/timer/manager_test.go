package timer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/focusboard/internal/domain"
	"github.com/rezkam/focusboard/internal/domain/domaintest"
)

// mockRepo holds one session in memory.
type mockRepo struct {
	session *domain.PomodoroSession
	loadErr error
	saveErr error
	deleted int
	saves   int
}

func (m *mockRepo) LoadSession(context.Context) (*domain.PomodoroSession, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.session, nil
}

func (m *mockRepo) SaveSession(_ context.Context, s domain.PomodoroSession) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.session = &s
	return nil
}

func (m *mockRepo) DeleteSession(context.Context) error {
	m.loadErr = nil
	m.deleted++
	m.session = nil
	return nil
}

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) (*Manager, *mockRepo, *domaintest.Clock) {
	t.Helper()
	repo := &mockRepo{}
	clock := domaintest.NewClock(t0)
	return NewManager(repo, clock), repo, clock
}

func TestStart_InitialisesSession(t *testing.T) {
	m, repo, _ := newTestManager(t)

	s, err := m.Start(context.Background(), 3, 25)
	require.NoError(t, err)

	assert.Equal(t, 3, s.TaskID)
	assert.Equal(t, 1500, s.RemainingTime)
	assert.True(t, s.IsActive)
	assert.False(t, s.IsPaused)
	assert.Equal(t, t0.UnixMilli(), s.StartTime)
	require.NotNil(t, repo.session)
	assert.Equal(t, s, *repo.session)
}

func TestStart_RejectsOutOfRangeMinutes(t *testing.T) {
	m, repo, _ := newTestManager(t)

	_, err := m.Start(context.Background(), 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
	_, err = m.Start(context.Background(), 1, 1000)
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, ok := m.Session()
	assert.False(t, ok)
	assert.Nil(t, repo.session)
}

func TestPause_ReportsOnlyNewTime(t *testing.T) {
	m, _, clock := newTestManager(t)
	ctx := context.Background()
	_, err := m.Start(ctx, 1, 25)
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	report, err := m.Pause(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TimeReport{TaskID: 1, ElapsedSeconds: 10}, report)

	clock.Advance(time.Minute)
	report, err = m.Pause(ctx)
	require.NoError(t, err)
	assert.True(t, report.IsZero(), "resume reports nothing")

	clock.Advance(5 * time.Second)
	report, err = m.Pause(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, report.ElapsedSeconds)

	s, ok := m.Session()
	require.True(t, ok)
	assert.Equal(t, 1500-15, s.RemainingTime)
}

func TestPause_FreezesRemainingTime(t *testing.T) {
	m, _, clock := newTestManager(t)
	ctx := context.Background()
	_, err := m.Start(ctx, 1, 1)
	require.NoError(t, err)

	clock.Advance(20 * time.Second)
	_, err = m.Pause(ctx)
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	s, fired, err := m.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Equal(t, 40, s.RemainingTime)

	_, err = m.Pause(ctx)
	require.NoError(t, err)
	s, _ = m.Session()
	assert.Equal(t, 40, s.RemainingTime)
}

func TestPause_WithoutSession(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Pause(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}

func TestStop_ReportsAndDeletes(t *testing.T) {
	m, repo, clock := newTestManager(t)
	ctx := context.Background()
	_, err := m.Start(ctx, 1, 25)
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	_, err = m.Pause(ctx)
	require.NoError(t, err)
	clock.Advance(time.Hour)

	report, err := m.Stop(ctx)
	require.NoError(t, err)
	assert.True(t, report.IsZero(), "paused time is not counted")
	assert.Nil(t, repo.session)

	report, err = m.Stop(ctx)
	require.NoError(t, err)
	assert.True(t, report.IsZero())
}

func TestStop_CapsAtDuration(t *testing.T) {
	m, _, clock := newTestManager(t)
	ctx := context.Background()
	_, err := m.Start(ctx, 1, 1)
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	report, err := m.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, report.ElapsedSeconds)
}

func TestTick_FiresCompletionOnce(t *testing.T) {
	m, repo, clock := newTestManager(t)
	ctx := context.Background()
	_, err := m.Start(ctx, 4, 1)
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	s, fired, err := m.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Equal(t, 30, s.RemainingTime)

	clock.Advance(31 * time.Second)
	s, fired, err = m.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, fired)
	assert.True(t, s.IsCompleted)
	assert.False(t, s.IsActive)
	assert.Equal(t, 0, s.RemainingTime)
	require.NotNil(t, repo.session)
	assert.True(t, repo.session.IsCompleted)

	for range 3 {
		clock.Advance(time.Second)
		_, fired, _ = m.Tick(ctx)
		assert.False(t, fired)
	}

	select {
	case c := <-m.Completions():
		assert.Equal(t, 4, c.Session.TaskID)
		assert.False(t, c.Retroactive)
		assert.NoError(t, c.Err)
	default:
		t.Fatal("expected a completion event")
	}
	select {
	case c := <-m.Completions():
		t.Fatalf("unexpected second completion: %+v", c)
	default:
	}
}

func TestStop_AfterCompletionReportsFullLength(t *testing.T) {
	m, _, clock := newTestManager(t)
	ctx := context.Background()
	_, err := m.Start(ctx, 1, 1)
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	_, _, err = m.Tick(ctx)
	require.NoError(t, err)

	report, err := m.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, report.ElapsedSeconds)
}

func TestLoad_ResumesRunningSession(t *testing.T) {
	m, repo, _ := newTestManager(t)
	repo.session = &domain.PomodoroSession{
		TaskID:    2,
		Duration:  1,
		StartTime: t0.Add(-30 * time.Second).UnixMilli(),
		IsActive:  true,
	}

	result, err := m.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	assert.Nil(t, result.Expired)
	assert.Equal(t, 30, result.Session.RemainingTime)

	s, ok := m.Session()
	require.True(t, ok)
	assert.Equal(t, 2, s.TaskID)
}

func TestLoad_DiscardsExpiredSession(t *testing.T) {
	m, repo, _ := newTestManager(t)
	repo.session = &domain.PomodoroSession{
		TaskID:       2,
		Duration:     1,
		StartTime:    t0.Add(-5 * time.Minute).UnixMilli(),
		IsActive:     true,
		ReportedTime: 20,
	}

	result, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result.Session)
	require.NotNil(t, result.Expired)
	assert.True(t, result.Expired.Retroactive)
	assert.Equal(t, domain.TimeReport{TaskID: 2, ElapsedSeconds: 40}, result.Report)
	assert.Nil(t, repo.session)

	_, ok := m.Session()
	assert.False(t, ok)

	c := <-m.Completions()
	assert.True(t, c.Retroactive)
}

func TestLoad_KeepsCompletedSession(t *testing.T) {
	m, repo, _ := newTestManager(t)
	repo.session = &domain.PomodoroSession{
		TaskID:      5,
		Duration:    1,
		StartTime:   t0.Add(-time.Hour).UnixMilli(),
		IsCompleted: true,
	}

	result, err := m.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	assert.Nil(t, result.Expired)
	assert.True(t, result.Session.IsCompleted)
}

func TestLoad_DiscardsCorruptRecord(t *testing.T) {
	m, repo, _ := newTestManager(t)
	repo.loadErr = domain.ErrCorruptRecord

	result, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result.Session)
	assert.Equal(t, 1, repo.deleted)
}

func TestLoad_PropagatesReadFailure(t *testing.T) {
	m, repo, _ := newTestManager(t)
	repo.loadErr = errors.New("io error")

	_, err := m.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestSaveFailureKeepsSession(t *testing.T) {
	m, repo, _ := newTestManager(t)
	repo.saveErr = errors.New("read-only")

	s, err := m.Start(context.Background(), 1, 25)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 1, s.TaskID)

	current, ok := m.Session()
	require.True(t, ok)
	assert.True(t, current.IsActive)
}

func TestTick_CompletionSaveFailureIsReported(t *testing.T) {
	m, repo, clock := newTestManager(t)
	ctx := context.Background()
	_, err := m.Start(ctx, 3, 1)
	require.NoError(t, err)

	repo.saveErr = errors.New("disk full")
	clock.Advance(61 * time.Second)
	s, fired, err := m.Tick(ctx)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.True(t, fired)
	assert.True(t, s.IsCompleted)

	current, ok := m.Session()
	require.True(t, ok)
	assert.True(t, current.IsCompleted)

	select {
	case c := <-m.Completions():
		assert.Equal(t, 3, c.Session.TaskID)
		assert.ErrorIs(t, c.Err, domain.ErrPersistence)
	default:
		t.Fatal("expected a completion event")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	m, _, clock := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	_, err := m.Start(ctx, 1, 1)
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Millisecond) }()

	select {
	case c := <-m.Completions():
		assert.Equal(t, 1, c.Session.TaskID)
	case <-time.After(time.Second):
		t.Fatal("completion not delivered")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestFormatTime(t *testing.T) {
	tests := map[int]string{
		0:     "00:00",
		59:    "00:59",
		61:    "01:01",
		1500:  "25:00",
		59940: "999:00",
		-4:    "00:00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatTime(in), "seconds=%d", in)
	}
}
