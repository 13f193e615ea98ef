package acl

import "log/slog"

// DetectConflicts scans every record-level rule entry and reports grants the
// app-level layer would not allow. For each entry naming principal P with
// record permissions R:
//
//   - a GROUP (or the built-in everyone) is checked against its own direct
//     app-level rule: the group itself is the unit under comparison, so
//     membership is not folded in,
//   - anything displayed as a person is checked against the fully resolved
//     effective permission, because a person's real access is shaped by
//     whichever group governs them, not by a rule literally naming them.
//
// Both sides are restricted to the shared three-capability catalog before
// comparison. The block's filter condition is carried along for display but
// never interpreted: false positives on never-matching conditions are
// preferred over silently missed mismatches.
//
// Field-entity entries are excluded. Their membership exists only at record
// evaluation time, so no static app-level baseline is meaningful for them.
func DetectConflicts(res *Resolver, blocks []RuleBlock) []Conflict {
	var candidates []Conflict
	for _, block := range blocks {
		for _, entry := range block.Entries {
			p := entry.Principal
			if p.Kind == KindFieldEntity {
				continue
			}

			var app PermissionSet
			switch {
			case p.Kind == KindGroup:
				if direct, ok := res.Direct(p.Code); ok {
					app = direct
				} else {
					app, _ = res.EveryonePermissions()
				}
			case isEveryone(p):
				app, _ = res.EveryonePermissions()
			default:
				app = res.EffectiveUser(p.Code)
			}

			record := entry.Permissions.Restrict(RecordCatalog)
			app = app.Restrict(RecordCatalog)

			excess := record.Diff(app)
			if excess.IsEmpty() {
				continue
			}
			slog.Debug("record grant exceeds app-level permissions",
				"principal", p.DisplayName, "kind", p.Kind.String(),
				"record", record.String(), "app", app.String(), "excess", excess.String())
			candidates = append(candidates, Conflict{
				Kind:      p.Kind,
				Name:      p.DisplayName,
				Record:    record,
				App:       app,
				Excess:    excess,
				Condition: block.Condition,
				Count:     1,
			})
		}
	}
	return candidates
}
