package models

import (
	"maps"
	"sort"
	"streakd/internal/calendar"
	"sync"
	"time"
)

type SubjectStore struct {
	mu   sync.RWMutex
	data map[string]*SubjectData
}

func NewSubjectStore() *SubjectStore {
	return &SubjectStore{data: make(map[string]*SubjectData)}
}

// Put registers a subject or updates its accounts. Calendars already held
// for the subject are kept. It reports whether the subject is new.
func (s *SubjectStore) Put(sub Subject) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.data[sub.ID]; ok {
		d.Subject = sub
		return false
	}
	s.data[sub.ID] = &SubjectData{
		Subject:   sub,
		Calendars: make(map[Platform]calendar.RawCalendar),
		FetchedAt: make(map[Platform]time.Time),
		History:   NewActivityHistory(),
	}
	return true
}

func (s *SubjectStore) Get(id string) (Subject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.data[id]
	if !ok {
		return Subject{}, false
	}
	return d.Subject, true
}

// List returns all subjects ordered by id.
func (s *SubjectStore) List() []Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Subject, 0, len(s.data))
	for _, d := range s.data {
		out = append(out, d.Subject)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *SubjectStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// SetCalendar replaces the raw calendar held for one platform, adds its
// active days to the subject's history and drops the last result.
func (s *SubjectStore) SetCalendar(id string, p Platform, raw calendar.RawCalendar, fetchedAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[id]
	if !ok {
		return false
	}
	d.Calendars[p] = maps.Clone(raw)
	d.FetchedAt[p] = fetchedAt
	d.History.Record(raw)
	d.LastResult = nil
	return true
}

// Calendars returns copies of the raw calendars and their fetch times.
func (s *SubjectStore) Calendars(id string) (map[Platform]calendar.RawCalendar, map[Platform]time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.data[id]
	if !ok {
		return nil, nil, false
	}
	cals := make(map[Platform]calendar.RawCalendar, len(d.Calendars))
	for p, raw := range d.Calendars {
		cals[p] = maps.Clone(raw)
	}
	return cals, maps.Clone(d.FetchedAt), true
}

func (s *SubjectStore) History(id string) (HistorySummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.data[id]
	if !ok {
		return HistorySummary{}, false
	}
	return d.History.Summary(), true
}

func (s *SubjectStore) SetResult(id string, rec StreakRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[id]
	if !ok {
		return false
	}
	d.LastResult = &rec
	return true
}

func (s *SubjectStore) Result(id string) (StreakRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.data[id]
	if !ok || d.LastResult == nil {
		return StreakRecord{}, false
	}
	return *d.LastResult, true
}

// GetData returns a deep copy of the store as a snapshot.
func (s *SubjectStore) GetData() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := &Snapshot{
		Version:  SnapshotVersion,
		Subjects: make(map[string]*SubjectData, len(s.data)),
	}
	for id, d := range s.data {
		snap.Subjects[id] = d.clone()
	}
	return snap
}

// PutData replaces the store content with the snapshot. Entries without a
// subject id are dropped.
func (s *SubjectStore) PutData(snap *Snapshot) {
	data := make(map[string]*SubjectData)
	if snap != nil {
		for id, d := range snap.Subjects {
			if d == nil || id == "" {
				continue
			}
			c := d.clone()
			c.Subject.ID = id
			data[id] = c
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

func (d *SubjectData) clone() *SubjectData {
	c := &SubjectData{
		Subject:   d.Subject,
		Calendars: make(map[Platform]calendar.RawCalendar, len(d.Calendars)),
		FetchedAt: make(map[Platform]time.Time, len(d.FetchedAt)),
	}
	for p, raw := range d.Calendars {
		c.Calendars[p] = maps.Clone(raw)
	}
	for p, t := range d.FetchedAt {
		c.FetchedAt[p] = t
	}
	if d.History != nil {
		c.History = d.History.Clone()
	} else {
		c.History = NewActivityHistory()
		for _, raw := range d.Calendars {
			c.History.Record(raw)
		}
	}
	if d.LastResult != nil {
		rec := *d.LastResult
		c.LastResult = &rec
	}
	return c
}
