package pathguard

// Observer receives rejection events for auditing. Implementations must
// not block: a slow sink must never stall the request that triggered the
// rejection.
type Observer interface {
	OnRejection(raw string, kind Kind)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(raw string, kind Kind)

// OnRejection forwards the event to the wrapped function.
func (f ObserverFunc) OnRejection(raw string, kind Kind) {
	f(raw, kind)
}

// notify reports a rejection to an optional observer.
func notify(obs Observer, raw string, kind Kind) {
	if obs != nil {
		obs.OnRejection(raw, kind)
	}
}
