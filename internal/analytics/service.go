package analytics

import (
	"errors"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/gcbaptista/abstract-retrieval/internal/persistence"
	"github.com/gcbaptista/abstract-retrieval/model"
	"github.com/gcbaptista/abstract-retrieval/services"
)

const (
	maxEventsToKeep = 10000 // Keep last 10k events for performance
	topQueries      = 5
)

// Service implements analytics tracking and reporting
type Service struct {
	mutex             sync.RWMutex
	events            []model.SearchEvent
	collectionManager services.CollectionManager
	dataFilePath      string // empty disables persistence
	now               func() time.Time

	// generation numbers snapshots under mutex; saved is the newest one on disk.
	generation uint64
	saveMu     sync.Mutex
	saved      uint64
}

// NewService creates a new in-memory analytics service
func NewService(collectionManager services.CollectionManager) *Service {
	return &Service{
		events:            make([]model.SearchEvent, 0),
		collectionManager: collectionManager,
		now:               time.Now,
	}
}

// NewPersistentService creates an analytics service that restores events from
// dataFilePath and saves them back after every tracked search.
func NewPersistentService(collectionManager services.CollectionManager, dataFilePath string) *Service {
	service := NewService(collectionManager)
	service.dataFilePath = dataFilePath
	if err := service.loadData(); err != nil {
		slog.Warn("Failed to load analytics data", "path", dataFilePath, "error", err)
	}
	return service
}

// TrackSearchEvent records a new search event
func (s *Service) TrackSearchEvent(event model.SearchEvent) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	event.Timestamp = s.now()
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}

	if s.dataFilePath != "" {
		s.generation++
		go s.save(s.generation, append([]model.SearchEvent(nil), s.events...))
	}
	return nil
}

// save writes snapshot unless a newer generation has already been written.
func (s *Service) save(generation uint64, snapshot []model.SearchEvent) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if generation <= s.saved {
		return
	}
	if err := persistence.SaveJSON(s.dataFilePath, snapshot); err != nil {
		slog.Warn("Failed to save analytics data", "path", s.dataFilePath, "error", err)
		return
	}
	s.saved = generation
}

// GetDashboardData returns complete analytics dashboard data
func (s *Service) GetDashboardData() (model.AnalyticsDashboard, error) {
	s.mutex.RLock()
	events := append([]model.SearchEvent(nil), s.events...)
	s.mutex.RUnlock()

	collections := s.collectionManager.ListCollections()

	var zeroResult []model.SearchEvent
	for _, event := range events {
		if event.ResultCount == 0 {
			zeroResult = append(zeroResult, event)
		}
	}

	usage := s.getCollectionUsage(events, collections)
	totalDocuments := 0
	for _, u := range usage {
		totalDocuments += u.DocumentCount
	}

	return model.AnalyticsDashboard{
		TotalSearches:            len(events),
		ZeroResultSearches:       len(zeroResult),
		AvgResponseTimeUs:        calculateAvgResponseTime(events),
		TotalDocuments:           totalDocuments,
		ActiveCollections:        len(collections),
		PopularSearches:          getPopularSearches(events),
		ZeroResultQueries:        getPopularSearches(zeroResult),
		CollectionUsage:          usage,
		ResponseTimeDistribution: getResponseTimeDistribution(events),
		SearchModes:              getSearchModeStats(events),
	}, nil
}

// calculateAvgResponseTime calculates average response time for events in microseconds
func calculateAvgResponseTime(events []model.SearchEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Microseconds()
}

// getPopularSearches returns the most frequent query strings, ties broken alphabetically
func getPopularSearches(events []model.SearchEvent) []model.PopularSearch {
	queryCounts := make(map[string]int)
	for _, event := range events {
		if event.Query != "" {
			queryCounts[event.Query]++
		}
	}

	popular := make([]model.PopularSearch, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > topQueries {
		popular = popular[:topQueries]
	}
	return popular
}

// getCollectionUsage returns usage statistics for each loaded collection
func (s *Service) getCollectionUsage(events []model.SearchEvent, collections []string) []model.CollectionUsage {
	searchCounts := make(map[string]int)
	for _, event := range events {
		searchCounts[event.Collection]++
	}

	usage := make([]model.CollectionUsage, 0, len(collections))
	for _, name := range collections {
		documentCount := 0
		if c, err := s.collectionManager.GetCollection(name); err == nil {
			documentCount = c.Stats().DocumentCount
		}
		usage = append(usage, model.CollectionUsage{
			Collection:    name,
			DocumentCount: documentCount,
			SearchCount:   searchCounts[name],
		})
	}
	return usage
}

// getResponseTimeDistribution returns response time distribution
func getResponseTimeDistribution(events []model.SearchEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)
	if total == 0 {
		return dist
	}

	for _, event := range events {
		switch rt := event.ResponseTime; {
		case rt < time.Millisecond:
			dist.BucketUnder1ms++
		case rt < 10*time.Millisecond:
			dist.Bucket1To10ms++
		case rt < 100*time.Millisecond:
			dist.Bucket10To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}

	dist.PercentUnder1ms = float64(dist.BucketUnder1ms) / float64(total) * 100
	dist.Percent1To10ms = float64(dist.Bucket1To10ms) / float64(total) * 100
	dist.Percent10To100ms = float64(dist.Bucket10To100ms) / float64(total) * 100
	dist.Percent100Plus = float64(dist.Bucket100msPlus) / float64(total) * 100
	return dist
}

// getSearchModeStats counts searches per mode
func getSearchModeStats(events []model.SearchEvent) model.SearchModeStats {
	stats := model.SearchModeStats{}
	for _, event := range events {
		switch services.SearchMode(event.Mode) {
		case services.ModeBoolean:
			stats.Boolean++
		case services.ModeVector:
			stats.Vector++
		}
	}
	return stats
}

// loadData loads analytics data from file
func (s *Service) loadData() error {
	var events []model.SearchEvent
	if err := persistence.LoadJSON(s.dataFilePath, &events); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // File doesn't exist yet, that's okay
		}
		return err
	}
	if len(events) > maxEventsToKeep {
		events = events[len(events)-maxEventsToKeep:]
	}
	s.events = events
	return nil
}
