package audioserver

// Installation is an opaque grouping key for speakers and sounds sharing a
// venue or zone. Analysis is aggregated per installation.
type Installation string

// InstallationSet is the set of installations a speaker or sound belongs to.
// The zero value is an empty set ready to use except for Insert, which
// allocates the map on first use.
type InstallationSet map[Installation]struct{}

func NewInstallationSet(insts ...Installation) InstallationSet {
	s := make(InstallationSet, len(insts))
	for _, inst := range insts {
		s[inst] = struct{}{}
	}
	return s
}

// Insert adds inst and reports whether it was not already present.
func (s *InstallationSet) Insert(inst Installation) bool {
	if *s == nil {
		*s = make(InstallationSet)
	}
	if _, ok := (*s)[inst]; ok {
		return false
	}
	(*s)[inst] = struct{}{}
	return true
}

// Remove deletes inst and reports whether it was present.
func (s InstallationSet) Remove(inst Installation) bool {
	if _, ok := s[inst]; !ok {
		return false
	}
	delete(s, inst)
	return true
}

func (s InstallationSet) Contains(inst Installation) bool {
	_, ok := s[inst]
	return ok
}

func (s InstallationSet) Len() int { return len(s) }

// Overlaps reports whether the two sets share at least one installation.
func (s InstallationSet) Overlaps(o InstallationSet) bool {
	a, b := s, o
	if len(b) < len(a) {
		a, b = b, a
	}
	for inst := range a {
		if _, ok := b[inst]; ok {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the set.
func (s InstallationSet) Clone() InstallationSet {
	c := make(InstallationSet, len(s))
	for inst := range s {
		c[inst] = struct{}{}
	}
	return c
}

// DBAPWeight is the weight a speaker gets in the DBAP solution for a sound: 1
// when the sound and the speaker share an installation, 0 otherwise.
func DBAPWeight(sound, speaker InstallationSet) float64 {
	if sound.Overlaps(speaker) {
		return 1
	}
	return 0
}
