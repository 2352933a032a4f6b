package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	level   slog.Level
	records []slog.Record
	err     error
}

func (h *recordingHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }
func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return h.err
}
func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	info := &recordingHandler{level: slog.LevelInfo}
	errOnly := &recordingHandler{level: slog.LevelError, err: errors.New("db down")}
	logger := slog.New(NewMultiHandler(info, errOnly))

	logger.Info("hello")
	logger.Error("boom")

	assert.Len(t, info.records, 2)
	require.Len(t, errOnly.records, 1)
	assert.Equal(t, "boom", errOnly.records[0].Message)
}

func TestRunRetention(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	var gotCutoff time.Time
	runRetention(context.Background(), RetentionJob{
		Name: "activity_logs_retention",
		Keep: Days(90),
		Prune: func(_ context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 3, nil
		},
	}, now)

	assert.Equal(t, time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC), gotCutoff)
}

func TestStartCleanup_SkipsDisabledJobs(t *testing.T) {
	called := make(chan struct{}, 1)
	sched, err := StartCleanup(
		RetentionJob{Name: "disabled", Keep: 0, Prune: func(context.Context, time.Time) (int64, error) {
			t.Error("disabled job ran")
			return 0, nil
		}},
		RetentionJob{Name: "enabled", Keep: Days(1), Prune: func(context.Context, time.Time) (int64, error) {
			select {
			case called <- struct{}{}:
			default:
			}
			return 0, nil
		}},
	)
	require.NoError(t, err)
	defer func() { _ = sched.Shutdown() }()

	assert.Len(t, sched.Jobs(), 1)
	select {
	case <-called:
	case <-time.After(5 * time.Second):
		t.Fatal("enabled job did not start immediately")
	}
}
