package services

import (
	"reflect"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
)

// discardSink drops every event.
type discardSink struct{}

func (discardSink) Publish(domain.Event) {}

// eventSink returns events, or a sink that drops everything when events is
// nil or holds a nil pointer.
func eventSink(events driven.EventSink) driven.EventSink {
	if events == nil {
		return discardSink{}
	}
	if v := reflect.ValueOf(events); v.Kind() == reflect.Pointer && v.IsNil() {
		return discardSink{}
	}
	return events
}
