package bind

const keyRingSize = 8

// Resolver walks a Binder's trie one input byte at a time. Feed bytes with
// Step, then call Next (repeatedly, to enumerate every (module, id) pair
// bound to the chord just completed) and Claim the Binding actually used.
type Resolver struct {
	binder *Binder

	group     int
	nodeIndex int

	keys     [keyRingSize]byte
	keyCount int
	tail     int

	pendingInput bool
}

// NewResolver returns a Resolver positioned at the default group.
func NewResolver(b *Binder) *Resolver {
	return &Resolver{binder: b}
}

// SetGroup switches the active binding group. A no-op if group is already
// current or isn't a real group root. Buffered-but-unconsumed input is
// replayed against the new group on the next call to Next.
func (r *Resolver) SetGroup(group int) {
	if group < 0 || group >= len(r.binder.nodes) {
		return
	}
	if r.group == group || !r.binder.isGroupRoot(group) {
		return
	}
	r.group = group
	r.nodeIndex = group
	r.pendingInput = true
}

// GetGroup returns the active group's root index.
func (r *Resolver) GetGroup() int { return r.group }

// Reset returns the resolver to its just-constructed state, keeping the
// current group.
func (r *Resolver) Reset() {
	group := r.group
	*r = Resolver{binder: r.binder}
	r.group = group
	r.nodeIndex = group
}

// Step feeds one byte into the trie walk. It returns true when the walk has
// reached a dead end or a leaf with no further possible continuations —
// i.e. there is no benefit in feeding more bytes before calling Next.
func (r *Resolver) Step(key byte) bool {
	if r.keyCount >= len(r.keys) {
		r.Reset()
		return false
	}
	r.keys[r.keyCount] = key
	r.keyCount++
	return r.stepImpl(key)
}

func (r *Resolver) stepImpl(key byte) bool {
	next := r.binder.findChild(r.nodeIndex, key)
	if next == -1 {
		return true
	}
	r.nodeIndex = next
	return r.binder.nodes[next].child == -1
}

// Next returns the next bound chord the walk so far resolves to, or an
// invalid Binding (Binding.Valid() == false) once no more matches remain —
// at which point the resolver has also reset itself, ready for new input.
func (r *Resolver) Next() Binding {
	if r.pendingInput {
		r.pendingInput = false

		remaining := r.keyCount - r.tail
		if remaining <= 0 || remaining >= len(r.keys) {
			r.Reset()
			return Binding{}
		}

		for i := r.tail; i < r.keyCount; i++ {
			if r.stepImpl(r.keys[i]) {
				break
			}
		}
	}

	for r.nodeIndex != -1 {
		n := r.binder.nodes[r.nodeIndex]
		nodeIndex := r.nodeIndex
		r.nodeIndex = n.next

		keyIndex := r.tail + n.depth - 1
		matches := n.key == 0 || (keyIndex >= 0 && keyIndex < r.keyCount && n.key == r.keys[keyIndex])
		if n.bound && matches {
			return r.newBinding(nodeIndex)
		}
	}

	r.Reset()
	return Binding{}
}

func (r *Resolver) newBinding(nodeIndex int) Binding {
	n := r.binder.nodes[nodeIndex]
	depth := n.depth
	if depth < 1 {
		depth = 1
	}
	return Binding{resolver: r, module: n.module, depth: depth, id: n.id}
}

func (r *Resolver) claim(b Binding) {
	r.tail += b.depth
	r.nodeIndex = r.group
	r.pendingInput = true
}

// Binding is one (module, id) pair a completed chord resolved to.
type Binding struct {
	resolver *Resolver
	module   int
	depth    int
	id       uint8
}

// Valid reports whether this Binding came from a real match.
func (b Binding) Valid() bool { return b.resolver != nil }

// Module returns the module bound to this chord.
func (b Binding) Module() ModuleHandle {
	if b.resolver == nil {
		return nil
	}
	return b.resolver.binder.module(b.module)
}

// ID returns the id the module registered this binding under, or 0xff if
// Binding is invalid.
func (b Binding) ID() uint8 {
	if b.resolver == nil {
		return 0xff
	}
	return b.id
}

// Chord returns the bytes this binding actually matched.
func (b Binding) Chord() []byte {
	if b.resolver == nil {
		return nil
	}
	r := b.resolver
	out := make([]byte, b.depth)
	copy(out, r.keys[r.tail:r.tail+b.depth])
	return out
}

// Claim commits this binding: it advances the resolver's consumed-input
// tail past the chord and positions it to resolve the next one, replaying
// any input already buffered beyond this chord.
func (b Binding) Claim() {
	if b.resolver != nil {
		b.resolver.claim(b)
	}
}
