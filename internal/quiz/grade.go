package quiz

// Grade reports whether submitted matches the answer key as a set.
// Order and duplicates are ignored on both sides.
func Grade(correct, submitted []string) bool {
	want := toSet(correct)
	got := toSet(submitted)
	if len(want) != len(got) {
		return false
	}
	for k := range want {
		if !got[k] {
			return false
		}
	}
	return true
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
