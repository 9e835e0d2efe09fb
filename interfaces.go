package stagd

import (
	"time"

	"github.com/stagd/stagd/logging"
)

// Logger implements logger abstraction.
type Logger interface {
	Debug() logging.EventBuilder
	Info() logging.EventBuilder
	Warning() logging.EventBuilder
	Error() logging.EventBuilder
	Fatal() logging.EventBuilder

	String(key, value string) Logger
	Int(key string, value int) Logger
	Fields(fields map[string]interface{}) Logger
	Level(string) (Logger, error)
	Clone() Logger
}

// Clock is an abstraction over time.Now, used wherever flush timestamps
// must be controlled in tests.
type Clock interface {
	NowUTC() time.Time
	NowUnix() int64
	Sleep(duration time.Duration)
}
