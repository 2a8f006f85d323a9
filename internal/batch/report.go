package batch

// Step is one schedule entry in a report
type Step struct {
	Robot  string `json:"robot"`
	Minute int    `json:"minute"`
}

// Summary is the serializable outcome for one blueprint
type Summary struct {
	ID        int    `json:"id"`
	Geodes    int    `json:"geodes"`
	Quality   int    `json:"quality"`
	Complete  bool   `json:"complete"`
	Nodes     int64  `json:"nodes"`
	Pruned    int64  `json:"pruned"`
	ElapsedMs int64  `json:"elapsedMs"`
	Schedule  []Step `json:"schedule"`
	Error     string `json:"error,omitempty"`
}

// Report is the serializable outcome of a batch run
type Report struct {
	Minutes int       `json:"minutes"`
	Results []Summary `json:"results"`
	Quality int       `json:"quality"`
	Product int       `json:"product"`
}

// Summarize flattens r for output
func (r Result) Summarize() Summary {
	s := Summary{
		ID:       r.Blueprint.ID,
		Geodes:   r.Geodes(),
		Quality:  r.Quality(),
		Schedule: []Step{},
	}
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	if r.Solution == nil {
		return s
	}
	s.Complete = r.Solution.Complete
	s.Nodes = r.Solution.Stats.Nodes
	s.Pruned = r.Solution.Stats.Pruned
	s.ElapsedMs = r.Solution.Elapsed.Milliseconds()
	for _, a := range r.Solution.Schedule {
		s.Schedule = append(s.Schedule, Step{Robot: a.Robot.String(), Minute: a.Minute})
	}
	return s
}

// NewReport summarizes results with both aggregates
func NewReport(minutes int, results []Result) Report {
	rep := Report{
		Minutes: minutes,
		Results: make([]Summary, 0, len(results)),
		Quality: QualitySum(results),
		Product: Product(results),
	}
	for _, r := range results {
		rep.Results = append(rep.Results, r.Summarize())
	}
	return rep
}
