package outputters

import (
	"sort"
	"strconv"

	"github.com/kintrospect/kintrospect/pkg/acl"
)

// sortReports orders a combined report: apps with conflicts first, then by
// numeric app ID. Clean apps stay listed so "audited and found nothing" is
// never confused with "not audited".
func sortReports(reports []*acl.AuditReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		a, b := reports[i], reports[j]
		if a.HasConflicts() != b.HasConflicts() {
			return a.HasConflicts()
		}
		ai, aerr := strconv.Atoi(a.AppID)
		bi, berr := strconv.Atoi(b.AppID)
		if aerr == nil && berr == nil {
			return ai < bi
		}
		return a.AppID < b.AppID
	})
}
