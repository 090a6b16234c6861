package capture

// PageContext is the ambient page state merged into every event intent.
type PageContext struct {
	URL      string
	Referrer string
}

// Element is a page node the host environment exposes to the agent.
type Element interface {
	// ItemID returns the tagged item identifier, or "" for untagged nodes.
	ItemID() string

	// MarkTracked atomically marks the element under the given key and
	// reports whether this call won the mark. The marker doubles as the
	// synchronization primitive against overlapping observer callbacks.
	MarkTracked(key string) bool

	// ClosestTagged returns the nearest tagged ancestor (or the element
	// itself), or nil when no tagged ancestor exists.
	ClosestTagged() Element

	// SelectedAttributes returns the full current attribute selection of the
	// enclosing form, not just the control that changed.
	SelectedAttributes() map[string]string
}

// Environment abstracts the browser capabilities the agent needs, so it is
// testable without a real page: storage access, page context, and visibility
// observation.
type Environment interface {
	ReadStorage(key string) (string, bool)
	WriteStorage(key, value string)
	Page() PageContext

	// ObserveVisibility invokes fn when el crosses the visibility threshold
	// inside the viewport minus bottomMarginPx. The returned stop function
	// cancels the observation.
	ObserveVisibility(el Element, threshold float64, bottomMarginPx int, fn func(Element)) (stop func())
}
