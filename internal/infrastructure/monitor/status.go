package monitor

import "time"

type Status struct {
	Driver    string    `json:"driver"`
	Storage   bool      `json:"storage"`
	TaskCount int       `json:"task_count"`
	Cache     *bool     `json:"cache,omitempty"`
	LastCheck time.Time `json:"last_check"`
}
