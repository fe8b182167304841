package model

import "time"

// SearchEvent represents a single search event for analytics tracking
type SearchEvent struct {
	Collection   string        `json:"collection"`
	Query        string        `json:"query"`
	Mode         string        `json:"mode"` // "boolean" or "vector"
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for a repeated query string
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// CollectionUsage represents search activity for a specific collection
type CollectionUsage struct {
	Collection    string `json:"collection"`
	DocumentCount int    `json:"document_count"`
	SearchCount   int    `json:"search_count"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	BucketUnder1ms   int     `json:"bucket_under_1ms"`
	Bucket1To10ms    int     `json:"bucket_1_10ms"`
	Bucket10To100ms  int     `json:"bucket_10_100ms"`
	Bucket100msPlus  int     `json:"bucket_100ms_plus"`
	PercentUnder1ms  float64 `json:"percentage_under_1ms"`
	Percent1To10ms   float64 `json:"percentage_1_10ms"`
	Percent10To100ms float64 `json:"percentage_10_100ms"`
	Percent100Plus   float64 `json:"percentage_100ms_plus"`
}

// SearchModeStats counts searches per retrieval model
type SearchModeStats struct {
	Boolean int `json:"boolean"`
	Vector  int `json:"vector"`
}

// AnalyticsDashboard represents the complete analytics dashboard data
type AnalyticsDashboard struct {
	// Summary metrics
	TotalSearches      int   `json:"total_searches"`
	ZeroResultSearches int   `json:"zero_result_searches"`
	AvgResponseTimeUs  int64 `json:"avg_response_time_us"`
	TotalDocuments     int   `json:"total_documents"`
	ActiveCollections  int   `json:"active_collections"`

	// Detailed analytics
	PopularSearches          []PopularSearch          `json:"popular_searches"`
	ZeroResultQueries        []PopularSearch          `json:"zero_result_queries"`
	CollectionUsage          []CollectionUsage        `json:"collection_usage"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
	SearchModes              SearchModeStats          `json:"search_modes"`
}
