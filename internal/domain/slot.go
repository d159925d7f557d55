package domain

// LiveState is the platform's view of the broadcast slots at one instant.
// An empty ID means the platform reported no slot in that position.
type LiveState struct {
	CurrentID string
	NextID    string
}

func (s LiveState) HasCurrent() bool {
	return s.CurrentID != ""
}

func (s LiveState) HasNext() bool {
	return s.NextID != ""
}
