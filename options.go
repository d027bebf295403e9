package simtrace

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/simtrace/compress"
	"github.com/arloliu/simtrace/encoding"
	"github.com/arloliu/simtrace/format"
	"github.com/arloliu/simtrace/internal/options"
)

// EngineOption represents a functional option for configuring an Engine.
type EngineOption = options.Option[*Engine]

// WithLogger sets the logger used for debug output. The default is
// logrus.StandardLogger().
func WithLogger(logger logrus.FieldLogger) EngineOption {
	return options.New(func(e *Engine) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		e.logger = logger

		return nil
	})
}

// WithCompression sets the codec used to inflate records flagged as
// compressed. Traces written by the simulator use zlib, the default.
func WithCompression(comp format.CompressionType) EngineOption {
	return options.New(func(e *Engine) error {
		codec, err := compress.CreateCodec(comp, "tick record")
		if err != nil {
			return err
		}
		e.compression = comp
		e.codec = codec

		return nil
	})
}

// WithHeartbeat overrides the look-back distance recorded in the trace.
//
// The heartbeat is the number of distinct logged ticks within which every
// auto-collected element is guaranteed to have written a full value.
func WithHeartbeat(n int) EngineOption {
	return options.New(func(e *Engine) error {
		if n < 0 {
			return fmt.Errorf("heartbeat must not be negative: %d", n)
		}
		e.heartbeat = n

		return nil
	})
}

type unpackConfig struct {
	visible encoding.FieldFilter
}

// UnpackOption represents a functional option for a single Unpack call.
type UnpackOption = options.Option[*unpackConfig]

// WithFieldFilter restricts decoded struct fields to those accepted by filter.
func WithFieldFilter(filter encoding.FieldFilter) UnpackOption {
	return options.NoError(func(c *unpackConfig) {
		c.visible = filter
	})
}

// WithFields restricts decoded struct fields to the named ones. Calling it
// without names decodes every field.
func WithFields(names ...string) UnpackOption {
	return options.NoError(func(c *unpackConfig) {
		if len(names) == 0 {
			c.visible = nil
			return
		}

		set := make(map[string]struct{}, len(names))
		for _, n := range names {
			set[n] = struct{}{}
		}
		c.visible = func(field string) bool {
			_, ok := set[field]
			return ok
		}
	})
}
