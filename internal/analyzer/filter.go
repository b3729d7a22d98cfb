package analyzer

import "policy-log-analytics/internal/model"

// FilterRecords selects records whose log_level is in levels and component in
// components, preserving file order. An empty levels or components set
// matches everything on that axis.
func FilterRecords(records model.RecordSequence, levels, components []string) []model.LogRecord {
	levelSet := toSet(levels)
	componentSet := toSet(components)

	filtered := make([]model.LogRecord, 0)
	for i := range records {
		if len(levelSet) > 0 && !levelSet[records[i].LogLevel] {
			continue
		}
		if len(componentSet) > 0 && !componentSet[records[i].Component] {
			continue
		}
		filtered = append(filtered, records[i])
	}
	return filtered
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
