package assessment

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

const (
	MinLevel    = 1
	MaxLevel    = 4
	MaxTextRune = 2000
)

var validPass = map[PassFail]bool{PassYes: true, PassNo: true, PassUnknown: true}

// ValidateReport checks a report after operator edits. It returns every
// problem found, or nil.
func ValidateReport(r *Report) []error {
	if r == nil {
		return []error{fmt.Errorf("report is nil")}
	}
	var errs []error
	check := func(field, s string) {
		if n := utf8.RuneCountInString(s); n > MaxTextRune {
			errs = append(errs, fmt.Errorf("%s: %d characters exceeds %d", field, n, MaxTextRune))
		}
	}

	check("subject_name", r.SubjectName)
	check("period", r.Period)

	for _, info := range Competencies {
		rec, ok := r.Competencies[info.ID]
		if !ok {
			continue
		}
		if rec.Level < MinLevel || rec.Level > MaxLevel {
			errs = append(errs, fmt.Errorf("%s: level %d out of range %d..%d", info.ID, rec.Level, MinLevel, MaxLevel))
		}
		if !validCategories[rec.Category] {
			errs = append(errs, fmt.Errorf("%s: unknown category %q", info.ID, rec.Category))
		}
		check(string(info.ID)+".description", rec.Description)
		check(string(info.ID)+".observations", rec.Observations)
	}
	var unknown []string
	for id := range r.Competencies {
		if !id.Valid() {
			unknown = append(unknown, string(id))
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		errs = append(errs, fmt.Errorf("unknown competency %q", id))
	}

	if m := r.Metrics; m != nil {
		for i, k := range m.KPIs {
			if !isKPIName(k.Name) {
				errs = append(errs, fmt.Errorf("kpis[%d]: unknown indicator %q", i, k.Name))
			}
			if !validPass[k.PassFail] {
				errs = append(errs, fmt.Errorf("kpis[%d]: unknown pass flag %q", i, k.PassFail))
			}
			if k.Period != "" {
				if _, ok := monthIndex[fold(k.Period)]; !ok {
					errs = append(errs, fmt.Errorf("kpis[%d]: unknown month %q", i, k.Period))
				}
			}
			check(fmt.Sprintf("kpis[%d].source_text", i), k.SourceText)
		}
		check("metrics.comments", m.Comments)
		check("metrics.pass_fail", m.PassFail)
	}
	return errs
}

func isKPIName(n KPIName) bool {
	for _, k := range KPINames {
		if k == n {
			return true
		}
	}
	return false
}
