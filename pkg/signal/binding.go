package signal

// Bind wires a field of the relay's value into a field of target: the
// current value is applied before Bind returns, and every later emit
// copies get(value) into the target synchronously via set.
//
// The target is weakly held, exactly as with ObserveOwned: the binding
// never keeps it alive, and a binding whose target has been collected
// is pruned on the next emit. Cancel the returned token to unbind
// explicitly.
//
// Accessor pairs replace reflective field paths; they keep the copied
// field statically typed:
//
//	signal.Bind(relay,
//	    func(s State) int { return s.Count },
//	    view,
//	    func(v *View, n int) { v.Count = n })
func Bind[S, F, O any](r *Relay[S], get func(S) F, target *O, set func(*O, F)) *Token {
	return ObserveOwned(r, target, func(o *O, v S) {
		set(o, get(v))
	})
}

// BindOptional is Bind for absent-capable target fields: the setter
// receives a pointer to the extracted field value, suitable for
// assigning to a *F-typed field. The copy behavior is identical to
// Bind; only the setter's signature differs.
func BindOptional[S, F, O any](r *Relay[S], get func(S) F, target *O, set func(*O, *F)) *Token {
	return ObserveOwned(r, target, func(o *O, v S) {
		f := get(v)
		set(o, &f)
	})
}
