package services

import (
	"sync"

	"no-homers/models"
)

type draftKey struct {
	picker string
	season int
	week   int
}

// DraftStore holds each picker's unsaved pick set between clicks
type DraftStore struct {
	mu     sync.Mutex
	drafts map[draftKey]models.PickSet
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[draftKey]models.PickSet)}
}

func (d *DraftStore) Get(picker string, season, week int) (models.PickSet, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.drafts[draftKey{picker, season, week}]
	return set, ok
}

// Update applies fn to the stored draft, or to the loaded one when none
// exists, and stores the result if fn succeeds. load runs without the lock;
// a draft stored by a concurrent caller in the meantime wins over it.
func (d *DraftStore) Update(picker string, season, week int, load func() (models.PickSet, error), fn func(models.PickSet) (models.PickSet, error)) (models.PickSet, error) {
	key := draftKey{picker, season, week}

	d.mu.Lock()
	current, ok := d.drafts[key]
	d.mu.Unlock()

	if !ok {
		loaded, err := load()
		if err != nil {
			return models.PickSet{}, err
		}
		current = loaded
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if existing, ok := d.drafts[key]; ok {
		current = existing
	}

	next, err := fn(current)
	if err != nil {
		return current, err
	}
	d.drafts[key] = next
	return next, nil
}

func (d *DraftStore) Delete(picker string, season, week int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.drafts, draftKey{picker, season, week})
}

// Len counts open drafts
func (d *DraftStore) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.drafts)
}
