package driver

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PhaseReport is the duration of one stage.
type PhaseReport struct {
	Name string  `json:"name"`
	MS   float64 `json:"ms"`
}

// TimingReport summarizes where a run spent its time.
type TimingReport struct {
	Kind    string        `json:"kind"`
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Report builds a TimingReport from the recorded stages.
func (t Timings) Report(kind string, total time.Duration) TimingReport {
	if kind == "" {
		kind = "pipeline"
	}
	r := TimingReport{Kind: kind, TotalMS: millis(total)}
	for _, stage := range []Stage{StageLoad, StageExtract, StageAssemble, StageExport} {
		if t.Has(stage) {
			r.Phases = append(r.Phases, PhaseReport{Name: string(stage), MS: millis(t.Duration(stage))})
		}
	}
	return r
}

// String renders the report as one human readable line.
func (r TimingReport) String() string {
	parts := make([]string, len(r.Phases))
	for i, p := range r.Phases {
		parts[i] = fmt.Sprintf("%s %.2f ms", p.Name, p.MS)
	}
	return fmt.Sprintf("timings (%s): total %.2f ms [%s]", r.Kind, r.TotalMS, strings.Join(parts, ", "))
}

// JSON renders the report as a single JSON line.
func (r TimingReport) JSON() string {
	data, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(data)
}
