package logging

import (
	"github.com/rs/zerolog"

	stagdLogging "github.com/stagd/stagd/logging"
)

type EventBuilder struct {
	*zerolog.Event
}

func (e EventBuilder) Msg(msg string) {
	if e.Event != nil {
		e.Event.Msg(msg)
	}
}

func (e EventBuilder) String(key, value string) stagdLogging.EventBuilder {
	if e.Event != nil {
		e.Event.Str(key, value)
	}
	return e
}

func (e EventBuilder) Error(err error) stagdLogging.EventBuilder {
	if e.Event != nil {
		e.Event.Str("error", err.Error())
	}
	return e
}

func (e EventBuilder) Int(key string, value int) stagdLogging.EventBuilder {
	if e.Event != nil {
		e.Event.Int(key, value)
	}
	return e
}

func (e EventBuilder) Int64(key string, value int64) stagdLogging.EventBuilder {
	if e.Event != nil {
		e.Event.Int64(key, value)
	}
	return e
}

func (e EventBuilder) Float64(key string, value float64) stagdLogging.EventBuilder {
	if e.Event != nil {
		e.Event.Float64(key, value)
	}
	return e
}

func (e EventBuilder) Interface(key string, value any) stagdLogging.EventBuilder {
	if e.Event != nil {
		e.Event.Interface(key, value)
	}
	return e
}

func (e EventBuilder) Fields(fields map[string]any) stagdLogging.EventBuilder {
	if e.Event != nil {
		e.Event.Fields(fields)
	}
	return e
}
