package entity

import "time"

type Credentials struct {
	Email    string
	Password string
}

// ScenarioTarget is what a scenario runs against.
type ScenarioTarget struct {
	BaseURL     string
	Credentials Credentials
}

type ScenarioStatus string

const (
	ScenarioPassed ScenarioStatus = "passed"
	ScenarioFailed ScenarioStatus = "failed"
)

type ScenarioResult struct {
	Name       string
	Status     ScenarioStatus
	Duration   time.Duration
	Err        error
	Screenshot string
}

type RunReport struct {
	Results  []ScenarioResult
	Duration time.Duration
}

func (r *RunReport) Failed() []ScenarioResult {
	var failed []ScenarioResult
	for _, res := range r.Results {
		if res.Status == ScenarioFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *RunReport) Passed() bool {
	return len(r.Failed()) == 0
}
