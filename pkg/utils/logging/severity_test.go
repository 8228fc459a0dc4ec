package logging_test

import (
	"testing"

	"github.com/bibiserv/bibigrid/pkg/utils/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	ordered := []logging.Severity{
		logging.Debug,
		logging.Info,
		logging.Warning,
		logging.Error,
		logging.Announcement,
	}

	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1], ordered[i], "%s must rank below %s", ordered[i-1], ordered[i])
	}

	assert.Greater(t, logging.Announcement.Level(), zapcore.FatalLevel)
}

func TestSeverityString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "DEBUG", logging.Debug.String())
	assert.Equal(t, "WARNING", logging.Warning.String())
	assert.Equal(t, "ANNOUNCEMENT", logging.Announcement.String())
	assert.Equal(t, "LEVEL(17)", logging.Severity(17).String())
}

func TestRegisterIsIdempotent(t *testing.T) {
	t.Parallel()

	first, err := logging.Register("announcement", 42)
	require.NoError(t, err)

	second, err := logging.Register("ANNOUNCEMENT", 42)
	require.NoError(t, err)

	assert.Equal(t, logging.Announcement, first)
	assert.Equal(t, first, second)
}

func TestRegisterRejectsConflicts(t *testing.T) {
	t.Parallel()

	_, err := logging.Register("ANNOUNCEMENT", 50)
	require.ErrorIs(t, err, logging.ErrSeverityConflict)

	_, err = logging.Register("SHOUT", logging.Announcement)
	require.ErrorIs(t, err, logging.ErrSeverityConflict)

	_, err = logging.Register("QUIET", logging.Warning)
	require.ErrorIs(t, err, logging.ErrSeverityRank)
}
