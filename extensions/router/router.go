// Package router dispatches inbound mqttlite messages to handlers.
//
// Each route is registered under the topic filter it was subscribed with and
// may narrow that further with payload conditions. Filters lists exactly
// what a client has to subscribe to, and MessageHandler plugs the router
// into mqttlite.WithMessageHandler.
package router

import (
	"regexp"
	"sync"

	"github.com/vitalvas/mqttlite"
)

// Handler processes an MQTT message.
type Handler func(msg *mqttlite.Message)

// Condition reports whether a message that matched the route's filter
// should be delivered.
type Condition func(msg *mqttlite.Message) bool

// PayloadMatches accepts messages whose payload matches pattern.
func PayloadMatches(pattern *regexp.Regexp) Condition {
	return func(msg *mqttlite.Message) bool {
		return pattern.Match(msg.Payload)
	}
}

// MaxPayload accepts messages whose payload is at most n bytes.
func MaxPayload(n int) Condition {
	return func(msg *mqttlite.Message) bool {
		return len(msg.Payload) <= n
	}
}

type route struct {
	filter     string
	handler    Handler
	conditions []Condition
}

func (rt *route) accepts(msg *mqttlite.Message) bool {
	if !mqttlite.TopicMatch(rt.filter, msg.Topic) {
		return false
	}
	for _, cond := range rt.conditions {
		if !cond(msg) {
			return false
		}
	}
	return true
}

// Router holds routes in registration order. Registration may happen from
// any goroutine; Route runs handlers on the caller's goroutine, which for a
// Client is the one calling ServiceOnce or Subscribe.
type Router struct {
	mu       sync.RWMutex
	routes   []route
	notFound Handler
}

// New creates an empty Router.
func New() *Router {
	return &Router{}
}

// Handle registers handler for messages matching filter and every condition.
// The filter is validated like a SUBSCRIBE filter.
//
//	r.Handle("sensors/+/alarm", onAlarm, PayloadMatches(regexp.MustCompile(`^ON$`)))
func (r *Router) Handle(filter string, handler Handler, conditions ...Condition) error {
	if err := mqttlite.ValidateTopicFilter(filter); err != nil {
		return err
	}

	r.mu.Lock()
	r.routes = append(r.routes, route{
		filter:     filter,
		handler:    handler,
		conditions: conditions,
	})
	r.mu.Unlock()

	return nil
}

// NotFound sets the handler for messages no route accepts.
func (r *Router) NotFound(handler Handler) {
	r.mu.Lock()
	r.notFound = handler
	r.mu.Unlock()
}

// Route delivers msg to every accepting route in registration order and
// returns how many handlers ran. The NotFound handler runs, and is not
// counted, when none did.
func (r *Router) Route(msg *mqttlite.Message) int {
	if msg == nil {
		return 0
	}

	r.mu.RLock()
	var matched []Handler
	for i := range r.routes {
		if r.routes[i].accepts(msg) {
			matched = append(matched, r.routes[i].handler)
		}
	}
	notFound := r.notFound
	r.mu.RUnlock()

	for _, handler := range matched {
		handler(msg)
	}
	if len(matched) == 0 && notFound != nil {
		notFound(msg)
	}

	return len(matched)
}

// Filters returns the distinct route filters in registration order.
func (r *Router) Filters() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.routes))
	filters := make([]string, 0, len(r.routes))
	for _, rt := range r.routes {
		if _, ok := seen[rt.filter]; ok {
			continue
		}
		seen[rt.filter] = struct{}{}
		filters = append(filters, rt.filter)
	}
	return filters
}

// Len returns the number of routes.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

// Clear removes all routes. The NotFound handler is kept.
func (r *Router) Clear() {
	r.mu.Lock()
	r.routes = nil
	r.mu.Unlock()
}

// MessageHandler adapts the router for mqttlite.WithMessageHandler.
func (r *Router) MessageHandler() mqttlite.MessageHandler {
	return func(msg *mqttlite.Message) {
		r.Route(msg)
	}
}
