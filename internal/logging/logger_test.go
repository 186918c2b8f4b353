package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"trace":   TRACE,
		"DEBUG":   DEBUG,
		" info ":  INFO,
		"":        INFO,
		"warning": WARN,
		"error":   ERROR,
		"off":     OFF,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, "уровень %q", in)
		assert.Equal(t, want, got, "уровень %q", in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestConsoleLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger("world", &buf, WARN)

	logger.Debug("скрыто %d", 1)
	logger.Info("тоже скрыто")
	logger.Warn("чанк %s не загружен", "(1,0,2)")
	logger.Error("ошибка меша")

	out := buf.String()
	assert.NotContains(t, out, "скрыто")
	assert.Contains(t, out, "[WARN] [world] чанк (1,0,2) не загружен")
	assert.Contains(t, out, "[ERROR] [world] ошибка меша")
	assert.Equal(t, 2, strings.Count(out, "\n"))

	buf.Reset()
	logger.SetLevels(TRACE, OFF)
	logger.Trace("видно")
	assert.Contains(t, buf.String(), "[TRACE]")
}

func TestDiscardAndNilLogger(t *testing.T) {
	Discard().Error("ничего не должно случиться")

	var nilLogger *Logger
	nilLogger.Info("и здесь тоже")
}

func TestFileLogger(t *testing.T) {
	SetLogDir(t.TempDir())

	logger, err := NewLogger("test")
	require.NoError(t, err)
	logger.Debug("в файл")
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close(), "повторное закрытие безопасно")
}

func TestManagerComponents(t *testing.T) {
	lm := &LoggerManager{loggers: make(map[string]*Logger)}

	a := lm.MustGetLogger("world")
	b := lm.MustGetLogger("world")
	assert.Same(t, a, b, "логгер компонента создается один раз")
	lm.MustGetLogger("sim")

	assert.Equal(t, []string{"sim", "world"}, lm.ListComponents())
	assert.NoError(t, lm.SetLogLevel("world", DEBUG, OFF))
	assert.Error(t, lm.SetLogLevel("render", DEBUG, OFF))
	assert.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.ListComponents())
}
