// File: internal/observability/component.go
package observability

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// componentCore filters entries by the level configured for the component
// that logged them. A component is any dot-separated segment of the logger
// name, so "browser-viz.recorder" and "browser-viz.recorder.gif" both match
// "recorder". The innermost matching segment wins.
type componentCore struct {
	zapcore.Core
	base      zapcore.Level
	overrides map[string]zapcore.Level
}

func (c *componentCore) With(fields []zapcore.Field) zapcore.Core {
	return &componentCore{Core: c.Core.With(fields), base: c.base, overrides: c.overrides}
}

func (c *componentCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ent.Level < c.threshold(ent.LoggerName) {
		return ce
	}
	return c.Core.Check(ent, ce)
}

func (c *componentCore) threshold(loggerName string) zapcore.Level {
	segments := strings.Split(loggerName, ".")
	for i := len(segments) - 1; i >= 0; i-- {
		if lvl, ok := c.overrides[strings.ToLower(segments[i])]; ok {
			return lvl
		}
	}
	return c.base
}

// componentLevels parses the configured overrides. Unparseable levels are
// dropped; configuration validation rejects them earlier.
func componentLevels(raw map[string]string) map[string]zapcore.Level {
	out := make(map[string]zapcore.Level, len(raw))
	for name, s := range raw {
		lvl, err := zapcore.ParseLevel(s)
		if err != nil {
			continue
		}
		out[strings.ToLower(name)] = lvl
	}
	return out
}

func minLevel(base zapcore.Level, overrides map[string]zapcore.Level) zapcore.Level {
	lowest := base
	for _, lvl := range overrides {
		if lvl < lowest {
			lowest = lvl
		}
	}
	return lowest
}
