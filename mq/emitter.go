package mq

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	OwnerId    string `json:"owner_id"`
	ItemType   string `json:"item_type"`
}

// Emitter publishes index events. Implementations must not block the caller
// on delivery; a failed emit is never returned to the operation that caused it.
type Emitter interface {
	Emit(ctx context.Context, eventName string, content Index)
}

// LogEmitter writes events to the log. It is the default until a broker is
// configured.
type LogEmitter struct {
	log *zap.Logger
}

func NewLogEmitter(log *zap.Logger) *LogEmitter {
	return &LogEmitter{log: log}
}

func (e *LogEmitter) Emit(_ context.Context, eventName string, content Index) {
	e.log.Info("event emitted",
		zap.String("event", eventName),
		zap.String("entityType", content.EntityType),
		zap.String("method", content.Method),
		zap.String("entityId", content.EntityId),
		zap.String("ownerId", content.OwnerId))
}

// Recorder keeps emitted events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

type Event struct {
	Name  string
	Index Index
}

func (r *Recorder) Emit(_ context.Context, eventName string, content Index) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Event{Name: eventName, Index: content})
}

// Names lists the emitted event names in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Name
	}
	return out
}
