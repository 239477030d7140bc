package resolve

// Slots is the number of storage registers a script owns.
const Slots = 33

// RegisterFile is one snapshot of the storage registers.
type RegisterFile struct {
	stor [Slots]Value
}

// Get returns the value of slot i. Slots outside the file are unknown.
func (r *RegisterFile) Get(i int) Value {
	if i < 0 || i >= Slots {
		return Unknown()
	}
	return r.stor[i]
}

// Set stores v in slot i. Writes outside the file are dropped.
func (r *RegisterFile) Set(i int, v Value) {
	if i < 0 || i >= Slots {
		return
	}
	r.stor[i] = v
}

// Invalidate forgets every slot.
func (r *RegisterFile) Invalidate() {
	r.stor = [Slots]Value{}
}

// AllUnknown reports whether no slot holds any information.
func (r *RegisterFile) AllUnknown() bool {
	for _, v := range r.stor {
		if v.state != unknown {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (r *RegisterFile) Clone() *RegisterFile {
	c := *r
	return &c
}

// Stack holds one snapshot per nested probe. Push copies the caller's
// snapshot so a callee can never write through to it.
type Stack struct {
	frames []*RegisterFile
}

// Push enters a probe and returns its private snapshot.
func (s *Stack) Push() *RegisterFile {
	var next *RegisterFile
	if top := s.Top(); top != nil {
		next = top.Clone()
	} else {
		next = &RegisterFile{}
	}
	s.frames = append(s.frames, next)
	return next
}

// Pop leaves the current probe.
func (s *Stack) Pop() {
	if len(s.frames) == 0 {
		return
	}
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
}

// Top returns the innermost snapshot, or nil when no probe is active.
func (s *Stack) Top() *RegisterFile {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of active probes.
func (s *Stack) Depth() int { return len(s.frames) }
