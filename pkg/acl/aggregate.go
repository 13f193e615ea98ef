package acl

// conflictKey identifies a unique conflict tuple. Permission sets are
// bitsets, so two equal sets always compare equal regardless of the order
// their capabilities were granted in.
type conflictKey struct {
	kind   Kind
	name   string
	record PermissionSet
	app    PermissionSet
}

// Aggregate deduplicates conflict candidates by (kind, name, record set,
// app set), counting repeat occurrences. The excess set is identical within
// a key by construction, since it is derived from the two sets being grouped
// on; a divergence means the detector is broken, and we fail loudly rather
// than report a number that cannot be trusted.
//
// Aggregate is idempotent: running it on its own output changes nothing.
func Aggregate(candidates []Conflict) []Conflict {
	merged := make(map[conflictKey]*Conflict, len(candidates))
	order := make([]conflictKey, 0, len(candidates))

	for _, c := range candidates {
		key := conflictKey{kind: c.Kind, name: c.Name, record: c.Record, app: c.App}
		if existing, ok := merged[key]; ok {
			if existing.Excess != c.Excess {
				panic("acl: identical conflict key with divergent excess")
			}
			existing.Count += c.Count
			continue
		}
		dup := c
		if dup.Count == 0 {
			dup.Count = 1
		}
		merged[key] = &dup
		order = append(order, key)
	}

	out := make([]Conflict, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	sortConflicts(out)
	return out
}
