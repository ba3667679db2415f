// Package soundscape is the scheduling side of the server: it starts the
// configured sounds, learns from the render thread when they end and plays
// them again when they repeat.
package soundscape

import "github.com/soundscape-lab/audioserver"

// Model tracks which sounds are playing on the render thread. It implements
// render.Soundscape and is only touched by the scheduler goroutine.
type Model struct {
	active map[audioserver.SoundID]struct{}
	ended  []audioserver.SoundID
}

func NewModel() *Model {
	return &Model{active: make(map[audioserver.SoundID]struct{})}
}

func (m *Model) AddActiveSound(id audioserver.SoundID) { m.active[id] = struct{}{} }

// RemoveActiveSound records that the render thread dropped the sound.
func (m *Model) RemoveActiveSound(id audioserver.SoundID) {
	if _, ok := m.active[id]; !ok {
		return
	}
	delete(m.active, id)
	m.ended = append(m.ended, id)
}

func (m *Model) IsActive(id audioserver.SoundID) bool {
	_, ok := m.active[id]
	return ok
}

func (m *Model) NumActive() int { return len(m.active) }

// TakeEnded returns the sounds that ended since the last call.
func (m *Model) TakeEnded() []audioserver.SoundID {
	ret := m.ended
	m.ended = nil
	return ret
}
