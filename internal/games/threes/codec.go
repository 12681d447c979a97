package threes

// MemorySlots is the size of the persisted slot region.
const MemorySlots = 256

// Slot layout of the persisted region.
const (
	slotGrid      = 0   // 16 slots, row-major, value+1
	SlotNext      = 254 // pending card, value+1
	SlotHighScore = 255 // stored as-is
)

// Memory is the flat word-addressed region a session is persisted into.
// A zero slot means "never written".
type Memory [MemorySlots]uint32

// State is the persisted part of a session.
type State struct {
	Grid      Grid
	Next      int
	HighScore int
}

// Encode writes s into a fresh memory image.
// Grid cells and the pending card are offset by one so an empty cell (0)
// differs from an unwritten slot. The high score is stored raw, so a zero
// high score reads back as absent.
func Encode(s State) Memory {
	var m Memory
	for y := range GridSize {
		for x := range GridSize {
			m[slotGrid+y*GridSize+x] = uint32(s.Grid[y][x] + 1)
		}
	}
	m[SlotNext] = uint32(s.Next + 1)
	m[SlotHighScore] = uint32(s.HighScore)
	return m
}

// Decode overlays m onto s. Slots holding zero, or a value no game can
// produce, leave the matching field of s at whatever it held before the call.
// It returns the number of such corrupt slots that were skipped.
func Decode(m Memory, s *State) int {
	skipped := 0
	for y := range GridSize {
		for x := range GridSize {
			v := m[slotGrid+y*GridSize+x]
			if v == 0 {
				continue
			}
			if tile := int(v) - 1; IsValidTile(tile) {
				s.Grid[y][x] = tile
			} else {
				skipped++
			}
		}
	}
	if v := m[SlotHighScore]; v > 0 {
		s.HighScore = int(v)
	}
	if v := m[SlotNext]; v > 0 {
		if next := int(v) - 1; next >= 1 && next <= 3 {
			s.Next = next
		} else {
			skipped++
		}
	}
	return skipped
}

// IsZero reports whether nothing was ever written to m.
func (m *Memory) IsZero() bool {
	for _, v := range m {
		if v != 0 {
			return false
		}
	}
	return true
}

// Corrupt returns how many written slots hold values Decode would skip.
func (m *Memory) Corrupt() int {
	var st State
	return Decode(*m, &st)
}
