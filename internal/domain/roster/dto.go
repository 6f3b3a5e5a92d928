package roster

// RosterFilter narrows a roster. An empty or "All" status matches every row;
// any other status, known or not, is compared case-insensitively.
type RosterFilter struct {
	Search string `json:"search"`
	Status string `json:"status"`
}

type RosterResponse struct {
	Employees []EmployeeView `json:"employees"`
	Total     int            `json:"total"`
	// Stale is set when the rows come from the last known-good roster.
	Stale   bool   `json:"stale"`
	BuiltAt string `json:"built_at,omitempty"`
	Warning string `json:"warning,omitempty"`
}

type SummaryResponse struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}
