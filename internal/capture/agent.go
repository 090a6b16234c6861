// Package capture models the browser-side event capture agent: it observes
// interaction signals through an injected environment and emits exactly one
// event intent per qualifying trigger.
package capture

import (
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/demirdoven/fluxa-analytics-service/internal/domain"
	"github.com/demirdoven/fluxa-analytics-service/internal/transport"
)

const (
	impressionThreshold    = 0.5
	impressionBottomMargin = 50 // px excluded at the viewport bottom
	markImpression         = "impression"
)

// Dispatcher sends assembled intents. Implemented by the transport client.
type Dispatcher interface {
	Configured() bool
	Dispatch(intent transport.Intent)
}

// InitState guards against double initialization when the agent script is
// enqueued twice on the same page. It is owned by the composing application
// and injected, so tests can instantiate fresh state per case.
type InitState struct {
	initialized bool
}

// Agent captures qualifying interactions and turns each into one intent.
type Agent struct {
	env        Environment
	dispatcher Dispatcher
	cookieName string
	state      *InitState
	enabled    bool

	// reentrancy guard for the error trigger: a failure while reporting an
	// error must not report itself
	reportingError bool
}

// NewAgent creates a new capture agent
func NewAgent(env Environment, dispatcher Dispatcher, cookieName string, state *InitState, log *zap.Logger) *Agent {
	_ = log // the agent is silent; failures surface through the transport
	return &Agent{
		env:        env,
		dispatcher: dispatcher,
		cookieName: cookieName,
		state:      state,
	}
}

// Init arms the agent. A second call on the same state no-ops, and the agent
// stays disabled when the transport has no endpoint or credentials.
func (a *Agent) Init() bool {
	if a.state.initialized {
		return false
	}
	a.state.initialized = true
	a.enabled = a.dispatcher.Configured()
	return a.enabled
}

// ObserveImpressions starts visibility observation for taggable elements.
// Each element fires at most once: the mark is taken synchronously before the
// dispatch, and the observation stops afterward.
func (a *Agent) ObserveImpressions(elements ...Element) {
	if !a.enabled {
		return
	}

	for _, el := range elements {
		// The environment may invoke the callback before ObserveVisibility
		// returns (element already in view at registration). The handshake
		// below makes sure the observation is cancelled in that case too.
		var (
			mu    sync.Mutex
			stop  func()
			fired bool
		)
		cancel := a.env.ObserveVisibility(el, impressionThreshold, impressionBottomMargin, func(visible Element) {
			if !visible.MarkTracked(markImpression) {
				return
			}
			mu.Lock()
			if stop != nil {
				stop()
			} else {
				fired = true
			}
			mu.Unlock()
			a.TrackEvent(domain.EventImpression, map[string]interface{}{
				"product_id": visible.ItemID(),
			})
		})

		mu.Lock()
		stop = cancel
		if fired && stop != nil {
			stop()
		}
		mu.Unlock()
	}
}

// HandleClick bubbles a click up to the nearest tagged ancestor and emits one
// product click event. Every click is a distinct user action: no dedup.
func (a *Agent) HandleClick(target Element) {
	if !a.enabled || target == nil {
		return
	}

	tagged := target.ClosestTagged()
	if tagged == nil || tagged.ItemID() == "" {
		return
	}

	a.TrackEvent(domain.EventProductClick, map[string]interface{}{
		"product_id": tagged.ItemID(),
	})
}

// HandleVariantChange emits a variant selection event carrying the full
// current set of selected attributes from sibling controls.
func (a *Agent) HandleVariantChange(control Element) {
	if !a.enabled || control == nil {
		return
	}

	tagged := control.ClosestTagged()
	if tagged == nil {
		return
	}

	attrs := map[string]interface{}{
		"product_id": tagged.ItemID(),
	}
	selection := tagged.SelectedAttributes()
	if len(selection) > 0 {
		payload := make(map[string]interface{}, len(selection))
		for k, v := range selection {
			payload[k] = v
		}
		attrs["json_payload"] = payload
	}

	a.TrackEvent(domain.EventVariantSelect, attrs)
}

// HandleError reports an uncaught error or unhandled rejection once. The
// guard stops a failure inside this path from reporting itself forever.
func (a *Agent) HandleError(message, source string, line int) {
	if !a.enabled || a.reportingError {
		return
	}
	a.reportingError = true
	defer func() { a.reportingError = false }()

	a.TrackEvent(domain.EventJSError, map[string]interface{}{
		"json_payload": map[string]interface{}{
			"message": message,
			"source":  source,
			"line":    line,
		},
	})
}

// HandleCatalogSort emits one event per sort control change.
func (a *Agent) HandleCatalogSort(sortKey string) {
	if !a.enabled || sortKey == "" {
		return
	}
	a.TrackEvent(domain.EventCatalogSort, map[string]interface{}{
		"json_payload": map[string]interface{}{"sort": sortKey},
	})
}

// HandleCatalogFilter emits one event per filter form submission.
func (a *Agent) HandleCatalogFilter(filters map[string]string) {
	if !a.enabled || len(filters) == 0 {
		return
	}
	payload := make(map[string]interface{}, len(filters))
	for k, v := range filters {
		payload[k] = v
	}
	a.TrackEvent(domain.EventCatalogFilter, map[string]interface{}{
		"json_payload": payload,
	})
}

// HandleCatalogPagination emits one event per pagination link click.
func (a *Agent) HandleCatalogPagination(page interface{}) {
	if !a.enabled {
		return
	}
	a.TrackEvent(domain.EventCatalogPagination, map[string]interface{}{
		"json_payload": map[string]interface{}{"page": coerceInt(page)},
	})
}

// TrackEvent merges ambient context into the attributes and performs a
// non-blocking send. It never blocks or delays the interaction that
// triggered it.
func (a *Agent) TrackEvent(eventType string, attrs map[string]interface{}) {
	if !a.enabled || eventType == "" {
		return
	}

	page := a.env.Page()
	intent := transport.Intent{
		EventType:    eventType,
		PageURL:      page.URL,
		PageReferrer: page.Referrer,
		IdentityID:   a.storedIdentity(),
		Attributes:   normalizeAttributes(attrs),
	}

	a.dispatcher.Dispatch(intent)
}

// storedIdentity reads the identity cookie value, dropping the signature
// suffix. Absent identity is fine: the server re-derives it anyway.
func (a *Agent) storedIdentity() string {
	raw, ok := a.env.ReadStorage(a.cookieName)
	if !ok || raw == "" {
		return ""
	}
	id, _, _ := strings.Cut(raw, ".")
	return id
}

// normalizeAttributes coerces the numeric fields defensively: non-numeric
// input becomes the zero value instead of raising.
func normalizeAttributes(attrs map[string]interface{}) map[string]interface{} {
	if attrs == nil {
		return nil
	}

	out := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		switch k {
		case "product_id", "variation_id", "qty", "order_id":
			out[k] = coerceInt(v)
		case "price", "cart_total", "shipping_total", "discount_total", "tax_total":
			out[k] = coerceFloat(v)
		default:
			out[k] = v
		}
	}
	return out
}

func coerceInt(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func coerceFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
