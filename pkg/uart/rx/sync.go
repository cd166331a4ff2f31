package rx

// SyncStages is the depth of the synchronizer register chain.
const SyncStages = 2

// Synchronizer absorbs an asynchronous line into the local clock domain.
// A level clocked in on cycle c is presented by Level on cycle c+SyncStages.
type Synchronizer struct {
	stages [SyncStages]bool
	valid  bool
}

// Level returns the synchronized line level.
func (s *Synchronizer) Level() bool {
	if !s.valid {
		return true
	}
	return s.stages[SyncStages-1]
}

// Clock registers the raw level, shifting the chain by one stage.
func (s *Synchronizer) Clock(raw bool) {
	if !s.valid {
		s.Reset()
	}
	for i := SyncStages - 1; i > 0; i-- {
		s.stages[i] = s.stages[i-1]
	}
	s.stages[0] = raw
}

// Reset forces every stage to the idle (high) level.
func (s *Synchronizer) Reset() {
	for i := range s.stages {
		s.stages[i] = true
	}
	s.valid = true
}
