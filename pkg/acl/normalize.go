package acl

import "log/slog"

// AppRuleInput is the wire-neutral shape of one application-level rule, in
// the order it appears in the app ACL.
type AppRuleInput struct {
	Code   string
	Kind   string
	View   bool
	Add    bool
	Edit   bool
	Delete bool
	Manage bool
	Import bool
	Export bool
}

// RecordEntryInput is one entry inside a record-level rule block.
type RecordEntryInput struct {
	Code   string
	Kind   string
	View   bool
	Edit   bool
	Delete bool
}

// RecordBlockInput is one record-level rule block: an opaque filter
// condition and its ordered entries.
type RecordBlockInput struct {
	Condition string
	Entries   []RecordEntryInput
}

// NormalizeAppRules converts raw app-level rules to canonical form, resolving
// each principal through the directory. Input order is preserved. Rules whose
// principal resolves invalid are kept so the report can show the dangling
// reference; only rules missing a code entirely are skipped, since there is
// nothing to resolve or compare.
func NormalizeAppRules(dir *Directory, raw []AppRuleInput) []Rule {
	rules := make([]Rule, 0, len(raw))
	for i, in := range raw {
		if in.Code == "" {
			slog.Warn("skipping app rule without principal code", "index", i)
			continue
		}
		var perms PermissionSet
		if in.View {
			perms |= 1 << PermView
		}
		if in.Add {
			perms |= 1 << PermAdd
		}
		if in.Edit {
			perms |= 1 << PermEdit
		}
		if in.Delete {
			perms |= 1 << PermDelete
		}
		if in.Manage {
			perms |= 1 << PermManage
		}
		if in.Import {
			perms |= 1 << PermImport
		}
		if in.Export {
			perms |= 1 << PermExport
		}
		rules = append(rules, Rule{
			Principal:   dir.Resolve(in.Code, ParseKind(in.Kind)),
			Permissions: perms,
		})
	}
	return rules
}

// NormalizeRecordRules converts raw record-level blocks to canonical form.
// Block order and entry order within each block are preserved.
func NormalizeRecordRules(dir *Directory, raw []RecordBlockInput) []RuleBlock {
	blocks := make([]RuleBlock, 0, len(raw))
	for bi, b := range raw {
		block := RuleBlock{Condition: b.Condition, Entries: make([]Rule, 0, len(b.Entries))}
		for ei, in := range b.Entries {
			if in.Code == "" {
				slog.Warn("skipping record rule entry without principal code", "block", bi, "entry", ei)
				continue
			}
			var perms PermissionSet
			if in.View {
				perms |= 1 << PermView
			}
			if in.Edit {
				perms |= 1 << PermEdit
			}
			if in.Delete {
				perms |= 1 << PermDelete
			}
			block.Entries = append(block.Entries, Rule{
				Principal:   dir.Resolve(in.Code, ParseKind(in.Kind)),
				Permissions: perms,
			})
		}
		blocks = append(blocks, block)
	}
	return blocks
}
