package hermes

import "time"

type EstimateComputedEvent struct {
	EstimateID      string    `json:"estimate_id"`
	SessionID       string    `json:"session_id,omitempty"`
	Region          string    `json:"region"`
	Period          string    `json:"period"`
	Share           float64   `json:"share"`
	TotalPopulation float64   `json:"total_population"`
	MissingColumns  []string  `json:"missing_columns,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

type SanityFailedEvent struct {
	Region         string    `json:"region"`
	Period         string    `json:"period"`
	Share          float64   `json:"share"`
	MissingColumns []string  `json:"missing_columns"`
	Timestamp      time.Time `json:"timestamp"`
}

type PeriodSelectedEvent struct {
	SessionID string    `json:"session_id"`
	Period    string    `json:"period"`
	Timestamp time.Time `json:"timestamp"`
}

type RegionSelectedEvent struct {
	SessionID string    `json:"session_id"`
	Region    string    `json:"region"`
	Timestamp time.Time `json:"timestamp"`
}

type OverrideChangedEvent struct {
	SessionID string    `json:"session_id"`
	Dimension string    `json:"dimension"`
	Category  string    `json:"category"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}
