// Package authz holds the declarative allow-list consulted by both
// authentication gates: which routes may be reached without a verified
// identity, which streaming topics may be subscribed to, and which
// destinations clients may send to. The policy is pure data and owns no
// mutable state.
package authz

import "strings"

// TaskTopic is the single topic streaming clients may subscribe to.
const TaskTopic = "tasks"

// appDestinationPrefix is the one designated inbound path for
// client-originated streaming messages.
const appDestinationPrefix = "/app/"

// openRoutes are reachable without authentication. Everything else
// requires a verified identity.
var openRoutes = map[string]struct{}{
	"POST /api/auth/login":    {},
	"POST /api/auth/register": {},
	"GET /health":             {},
	// The streaming endpoint authenticates during its own handshake;
	// browser WebSocket clients cannot set an Authorization header.
	"GET /ws": {},
}

// Policy answers whether a route or streaming destination requires a
// verified identity.
type Policy struct{}

// NewPolicy returns the application's authorization policy.
func NewPolicy() *Policy {
	return &Policy{}
}

// RequiresAuth reports whether the given method and path require a
// verified identity. Only the login and register endpoints and the
// health check are open.
func (p *Policy) RequiresAuth(method, path string) bool {
	_, open := openRoutes[method+" "+path]
	return !open
}

// CanSubscribe reports whether the given topic may be subscribed to.
// Only the task event topic is allowed, regardless of identity.
func (p *Policy) CanSubscribe(topic string) bool {
	return topic == TaskTopic
}

// CanSend reports whether a client-originated message may be sent to
// the given destination. Only destinations under the application inbound
// path are allowed; publishing anywhere else is denied outright.
func (p *Policy) CanSend(destination string) bool {
	return strings.HasPrefix(destination, appDestinationPrefix) &&
		len(destination) > len(appDestinationPrefix)
}
