package di

// Entry is one named collaborator in a Manifest.
type Entry struct {
	Key        DependencyKey
	Descriptor Descriptor
}

// Dep builds a manifest Entry.
func Dep(name string, d Descriptor) Entry {
	return Entry{Key: Key(name), Descriptor: d}
}

// Manifest is the ordered, immutable set of dependencies a class declares.
//
// The zero Manifest is valid and empty.
type Manifest struct {
	entries []Entry
	index   map[DependencyKey]int
}

// NewManifest validates entries and returns a Manifest preserving their order.
//
// It fails with InvalidManifestError on an empty name and DuplicateKeyError when
// a name repeats.
func NewManifest(entries ...Entry) (Manifest, error) {
	m := Manifest{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[DependencyKey]int, len(entries)),
	}
	for _, e := range entries {
		if e.Key == "" {
			return Manifest{}, InvalidManifestError{Reason: "empty dependency name"}
		}
		if _, exists := m.index[e.Key]; exists {
			return Manifest{}, DuplicateKeyError{Key: e.Key}
		}
		m.index[e.Key] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	return m, nil
}

// MustManifest is NewManifest that panics on error.
func MustManifest(entries ...Entry) Manifest {
	m, err := NewManifest(entries...)
	if err != nil {
		panic(err)
	}
	return m
}

// Len returns the number of entries.
func (m Manifest) Len() int { return len(m.entries) }

// Keys returns the dependency names in declaration order.
func (m Manifest) Keys() []DependencyKey {
	keys := make([]DependencyKey, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in declaration order.
func (m Manifest) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Lookup returns the descriptor declared under key.
func (m Manifest) Lookup(key DependencyKey) (Descriptor, bool) {
	i, ok := m.index[key]
	if !ok {
		return Descriptor{}, false
	}
	return m.entries[i].Descriptor, true
}

func (m Manifest) keyStrings() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = string(e.Key)
	}
	return out
}
