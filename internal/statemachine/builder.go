package statemachine

// Builder constructs an immutable Config[S]. Build once at startup; the
// resulting Config is read-only and safe to share across worker goroutines.
type Builder[S comparable] struct {
	transitions    map[S]map[S]struct{}
	initialStates  map[S]struct{}
	terminalStates map[S]struct{}
}

// NewBuilder creates an empty Builder for state type S.
func NewBuilder[S comparable]() *Builder[S] {
	return &Builder[S]{
		transitions:    make(map[S]map[S]struct{}),
		initialStates:  make(map[S]struct{}),
		terminalStates: make(map[S]struct{}),
	}
}

// AddTransition registers a valid from -> to edge.
func (b *Builder[S]) AddTransition(from, to S) *Builder[S] {
	targets, ok := b.transitions[from]
	if !ok {
		targets = make(map[S]struct{})
		b.transitions[from] = targets
	}
	targets[to] = struct{}{}
	return b
}

// AddInitialState marks s as a valid target for entity creation (transition
// from the absent/null state).
func (b *Builder[S]) AddInitialState(s S) *Builder[S] {
	b.initialStates[s] = struct{}{}
	return b
}

// AddTerminalState marks s as terminal: Build removes any outgoing edges
// registered for it, since transitions FROM a terminal state are always
// invalid regardless of what was configured.
func (b *Builder[S]) AddTerminalState(s S) *Builder[S] {
	b.terminalStates[s] = struct{}{}
	return b
}

// Build finalizes the configuration. The returned Config owns its own copies
// of the adjacency/state sets, so further mutation of the Builder (if reused)
// never affects an already-built Config.
func (b *Builder[S]) Build() *Config[S] {
	cfg := &Config[S]{
		transitions:    make(map[S]map[S]struct{}, len(b.transitions)),
		initialStates:  make(map[S]struct{}, len(b.initialStates)),
		terminalStates: make(map[S]struct{}, len(b.terminalStates)),
	}

	for s, targets := range b.transitions {
		if _, terminal := b.terminalStates[s]; terminal {
			// Terminal states never have outgoing edges, no matter what
			// was registered for them.
			continue
		}
		copied := make(map[S]struct{}, len(targets))
		for t := range targets {
			copied[t] = struct{}{}
		}
		cfg.transitions[s] = copied
	}

	for s := range b.initialStates {
		cfg.initialStates[s] = struct{}{}
	}

	for s := range b.terminalStates {
		cfg.terminalStates[s] = struct{}{}
	}

	return cfg
}
