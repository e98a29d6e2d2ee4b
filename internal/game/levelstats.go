package game

import "sort"

// LevelStatsRecord is the outcome of the latest won attempt of a level.
type LevelStatsRecord struct {
	Errors    int
	TimeTaken int
	Stars     int
}

// LevelStats maps level index to its latest won record. Replaying and
// winning a level overwrites its entry. Not safe for concurrent use.
type LevelStats struct {
	records map[int]LevelStatsRecord
	total   int
}

// NewLevelStats returns an empty mapping.
func NewLevelStats() *LevelStats {
	return &LevelStats{records: map[int]LevelStatsRecord{}}
}

// Record stores rec for index and recomputes the star total.
func (ls *LevelStats) Record(index int, rec LevelStatsRecord) {
	ls.records[index] = rec
	ls.total = 0
	for _, r := range ls.records {
		ls.total += r.Stars
	}
}

// Get returns the record for index.
func (ls *LevelStats) Get(index int) (LevelStatsRecord, bool) {
	rec, ok := ls.records[index]
	return rec, ok
}

// TotalStars returns the sum of recorded stars.
func (ls *LevelStats) TotalStars() int {
	return ls.total
}

// Len returns the number of recorded levels.
func (ls *LevelStats) Len() int {
	return len(ls.records)
}

// Indices returns the recorded level indices in ascending order.
func (ls *LevelStats) Indices() []int {
	out := make([]int, 0, len(ls.records))
	for idx := range ls.records {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Map returns a copy of the records.
func (ls *LevelStats) Map() map[int]LevelStatsRecord {
	out := make(map[int]LevelStatsRecord, len(ls.records))
	for idx, rec := range ls.records {
		out[idx] = rec
	}
	return out
}
