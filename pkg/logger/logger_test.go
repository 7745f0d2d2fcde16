package logger

import (
	"testing"

	"github.com/Badsnus/cu-events-notifier/pkg/logger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedRequiresInit(t *testing.T) {
	Log = nil
	_, err := Named("poller")
	assert.Error(t, err)
}

func TestHookReceivesEntries(t *testing.T) {
	require.NoError(t, Init(Config{Debug: true}))
	t.Cleanup(func() { SetLogHook(nil) })

	var got []types.Log
	SetLogHook(func(log types.Log) {
		got = append(got, log)
	})

	l, err := Named("poller")
	require.NoError(t, err)
	l.Info("tick finished")

	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, "tick finished", last.Message)
	assert.Equal(t, "main.poller", last.LoggerName)
}
