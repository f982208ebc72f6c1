package driver

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/timzifer/linkedqueue/internal/alloc"
	"github.com/timzifer/linkedqueue/internal/telemetry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestSession(t *testing.T, options ...Option) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	options = append([]Option{WithMetrics(&telemetry.QueueMetrics{})}, options...)
	s := NewSession(&out, options...)
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})
	return s, &out
}

func exec(t *testing.T, s *Session, line string) error {
	t.Helper()
	cmd, err := Parse(line)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	return s.Exec(cmd)
}

func TestSessionScenario(t *testing.T) {
	s, out := newTestSession(t)

	for _, line := range []string{
		"new",
		"it banana",
		"it apple",
		"it apple",
		"it cherry",
		"sort",
		"dedup",
		"size 2",
	} {
		require.NoError(t, exec(t, s, line), line)
	}

	assert.Equal(t, []string{"banana", "cherry"}, s.Queue().Values())
	assert.Contains(t, out.String(), "q = [apple apple banana cherry]\n")
	assert.Contains(t, out.String(), "q = [banana cherry]\n")
	assert.Contains(t, out.String(), "Queue size = 2\n")
}

func TestSessionRemoveChecksValue(t *testing.T) {
	s, out := newTestSession(t)

	require.NoError(t, exec(t, s, "new"))
	require.NoError(t, exec(t, s, "ih a 2"))
	require.NoError(t, exec(t, s, "it b"))

	require.NoError(t, exec(t, s, "rh a"))
	require.ErrorIs(t, exec(t, s, "rt a"), ErrMismatch)
	require.NoError(t, exec(t, s, "rh"))
	require.ErrorIs(t, exec(t, s, "rh"), ErrNoElement)

	assert.Contains(t, out.String(), "Removed b from queue\n")
	assert.Equal(t, 1, s.Tracker().Live())
}

func TestSessionTruncatesRemovedText(t *testing.T) {
	s, out := newTestSession(t, WithStringBufferSize(4))

	require.NoError(t, exec(t, s, "new"))
	require.NoError(t, exec(t, s, "it abcdef"))
	require.ErrorIs(t, exec(t, s, "rh abcdef"), ErrMismatch)

	assert.Contains(t, out.String(), "Removed abc from queue\n")
}

func TestSessionWithoutQueue(t *testing.T) {
	s, out := newTestSession(t)

	require.ErrorIs(t, exec(t, s, "ih a"), ErrNoQueue)
	require.ErrorIs(t, exec(t, s, "rh"), ErrNoElement)
	require.ErrorIs(t, exec(t, s, "dm"), ErrNoElement)
	require.ErrorIs(t, exec(t, s, "dedup"), ErrNoQueue)
	require.NoError(t, exec(t, s, "size 0"))
	require.NoError(t, exec(t, s, "reverse"))
	require.NoError(t, exec(t, s, "sort"))
	require.NoError(t, exec(t, s, "swap"))

	assert.Contains(t, out.String(), "q = NULL\n")
}

func TestSessionTransforms(t *testing.T) {
	s, _ := newTestSession(t)

	require.NoError(t, exec(t, s, "new"))
	for _, v := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, exec(t, s, "it "+v))
	}

	require.NoError(t, exec(t, s, "swap"))
	assert.Equal(t, []string{"b", "a", "d", "c", "e"}, s.Queue().Values())

	require.NoError(t, exec(t, s, "reverse"))
	assert.Equal(t, []string{"e", "c", "d", "a", "b"}, s.Queue().Values())

	require.NoError(t, exec(t, s, "dm"))
	assert.Equal(t, []string{"e", "c", "a", "b"}, s.Queue().Values())

	require.ErrorIs(t, exec(t, s, "size 5"), ErrMismatch)
}

func TestSessionDedupOnUnsortedQueue(t *testing.T) {
	s, _ := newTestSession(t)

	require.NoError(t, exec(t, s, "new"))
	for _, line := range []string{"it a", "it b", "it a"} {
		require.NoError(t, exec(t, s, line))
	}

	require.NoError(t, exec(t, s, "dedup"))
	assert.Equal(t, []string{"a", "b", "a"}, s.Queue().Values())
}

func TestSessionInjectedFailures(t *testing.T) {
	s, out := newTestSession(t)

	require.NoError(t, exec(t, s, "new"))
	require.NoError(t, exec(t, s, "fail 100"))
	require.NoError(t, exec(t, s, "it a"))
	require.NoError(t, exec(t, s, "new"))
	require.NoError(t, exec(t, s, "fail 0"))

	assert.Nil(t, s.Queue())
	assert.Contains(t, out.String(), "WARNING:")
	assert.Contains(t, out.String(), "Allocation failure rate = 100%\n")

	require.ErrorIs(t, exec(t, s, "it a"), ErrNoQueue)
}

func TestSessionRefusedWithoutInjection(t *testing.T) {
	tr := alloc.NewTracker()
	s, _ := newTestSession(t, WithTracker(tr))

	require.NoError(t, exec(t, s, "new"))
	tr.Refuse(alloc.KindText)
	require.ErrorIs(t, exec(t, s, "it a"), ErrInsertFailed)
	tr.Refuse(alloc.KindHead)
	require.ErrorIs(t, exec(t, s, "new"), ErrAllocFailed)
}

func TestRun(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s, out := newTestSession(t, WithLogger(zap.New(core)))

	script := strings.Join([]string{
		"# build",
		"new",
		"ih a",
		"ih b",
		"ih c",
		"",
		"dm",
		"show",
		"rh c",
		"rh x",
		"bogus",
		"free",
	}, "\n")

	failures, err := s.Run(context.Background(), strings.NewReader(script))
	require.NoError(t, err)
	require.Equal(t, 2, failures)

	assert.Contains(t, out.String(), "cmd> dm\nq = [c a]\n")
	assert.Contains(t, out.String(), "ERROR: unknown command 'bogus'\n")
	assert.Nil(t, s.Queue())

	entries := logs.FilterMessage("command failed").All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(10), entries[0].ContextMap()["line"])
	assert.Equal(t, int64(11), entries[1].ContextMap()["line"])
}

func TestRunCancelled(t *testing.T) {
	s, _ := newTestSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	failures, err := s.Run(ctx, strings.NewReader("new\nit a\n"))
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, failures)
	require.Nil(t, s.Queue())
}
