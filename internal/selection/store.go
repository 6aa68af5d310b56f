package selection

import "reviewdojo/internal/linekey"

// Store is a toggle-set of line keys. It remembers insertion order so
// results can be reported in the order the user marked lines. Removal leaves
// an empty tombstone in keys; tombstones are compacted once they outnumber
// live keys, so Toggle is amortized O(1).
type Store struct {
	index map[linekey.Key]int
	keys  []linekey.Key
	dead  int
}

func New() *Store {
	return &Store{index: map[linekey.Key]int{}}
}

// Toggle removes key when present, inserts it otherwise, and reports
// whether the key is selected afterwards.
func (s *Store) Toggle(key linekey.Key) bool {
	if i, ok := s.index[key]; ok {
		s.keys[i] = ""
		delete(s.index, key)
		s.dead++
		if s.dead > len(s.index) {
			s.compact()
		}
		return false
	}
	s.index[key] = len(s.keys)
	s.keys = append(s.keys, key)
	return true
}

func (s *Store) compact() {
	live := s.keys[:0]
	for _, k := range s.keys {
		if k == "" {
			continue
		}
		s.index[k] = len(live)
		live = append(live, k)
	}
	clear(s.keys[len(live):])
	s.keys = live
	s.dead = 0
}

func (s *Store) Clear() {
	s.index = map[linekey.Key]int{}
	s.keys = nil
	s.dead = 0
}

func (s *Store) Contains(key linekey.Key) bool {
	_, ok := s.index[key]
	return ok
}

func (s *Store) Len() int { return len(s.index) }

// CountForFile counts selected keys whose decoded file equals name.
func (s *Store) CountForFile(name string) int {
	n := 0
	for _, k := range s.keys {
		if k != "" && k.File() == name {
			n++
		}
	}
	return n
}

// Keys returns a copy of the selection in insertion order.
func (s *Store) Keys() []linekey.Key {
	out := make([]linekey.Key, 0, len(s.index))
	for _, k := range s.keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
