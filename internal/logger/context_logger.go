package logger

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type (
	ContextLogger struct {
		zeroLogger      *zerolog.Logger
		level           LogLevel
		context         Context
		showGoroutineID bool
	}

	Context map[string]interface{}
)

// newContextLogger creates the logger but doesn't initialize it, so loggers can be
// created in var phase and pick up the global configuration applied later.
func newContextLogger(level LogLevel, context Context, showGoroutineID bool) *ContextLogger {
	return &ContextLogger{
		level:           level,
		context:         context,
		showGoroutineID: showGoroutineID,
	}
}

func (c *ContextLogger) init() {
	c.update(c.level, c.context, c.showGoroutineID)
	InitializeGlobalLogger()
}

func (c *ContextLogger) update(level LogLevel, context Context, showGoroutineID bool) {
	c.level = level
	c.context = context
	c.showGoroutineID = showGoroutineID

	zl := log.Level(toZeroLevel(level))
	for key, value := range context {
		zl = zl.With().Interface(key, value).Logger()
	}
	if showGoroutineID {
		zl = zl.Hook(goRoutineIDHook{})
	}
	c.zeroLogger = &zl
}

func (c *ContextLogger) Trace(format string, args ...interface{}) {
	c.log(zerolog.TraceLevel, format, args)
}

func (c *ContextLogger) Debug(format string, args ...interface{}) {
	c.log(zerolog.DebugLevel, format, args)
}

func (c *ContextLogger) Info(format string, args ...interface{}) {
	c.log(zerolog.InfoLevel, format, args)
}

func (c *ContextLogger) Warning(format string, args ...interface{}) {
	c.log(zerolog.WarnLevel, format, args)
}

func (c *ContextLogger) Error(format string, args ...interface{}) {
	c.log(zerolog.ErrorLevel, format, args)
}

func (c *ContextLogger) log(lvl zerolog.Level, format string, args []interface{}) {
	if c.zeroLogger == nil {
		c.init()
	}
	event := c.zeroLogger.WithLevel(lvl)
	if len(args) == 0 {
		event.Msg(format)
	} else {
		event.Msgf(format, args...)
	}
}

// ChangeLevel changes the level of the context logger.
func (c *ContextLogger) ChangeLevel(newLevel LogLevel) {
	if c.zeroLogger == nil {
		c.init()
	}
	c.level = newLevel
	*c.zeroLogger = c.zeroLogger.Level(toZeroLevel(newLevel))
}

// goRoutineIDHook adds goroutine ID to the log event
type goRoutineIDHook struct{}

func (h goRoutineIDHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	e.Uint64("GoID", goroutineID())
}

func toZeroLevel(lvl LogLevel) zerolog.Level {
	switch lvl {
	case NONE:
		return zerolog.Disabled
	case TRACE:
		return zerolog.TraceLevel
	case DEBUG:
		return zerolog.DebugLevel
	case INFO:
		return zerolog.InfoLevel
	case WARNING:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		panic(fmt.Sprintf("unknown level: %d", lvl))
	}
}
