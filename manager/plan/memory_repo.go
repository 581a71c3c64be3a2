// Copyright 2020, Square, Inc.

package plan

import (
	"sync"

	"github.com/orcaman/concurrent-map"

	serr "github.com/robotology/yarpmanager/errors"
	"github.com/robotology/yarpmanager/proto"
)

type memoryRepo struct {
	cmap.ConcurrentMap
	max         int
	*sync.Mutex // serializes Add, for eviction
}

// NewMemoryRepo returns a repo that is backed by a thread-safe map in memory.
// If max is greater than zero, the oldest plans are dropped to keep at most
// max plans.
func NewMemoryRepo(max int) *memoryRepo {
	return &memoryRepo{
		ConcurrentMap: cmap.New(),
		max:           max,
		Mutex:         &sync.Mutex{},
	}
}

func (m *memoryRepo) Add(p proto.Plan) error {
	m.Lock()
	defer m.Unlock()
	wasAbsent := m.ConcurrentMap.SetIfAbsent(p.Id, p)
	if !wasAbsent {
		return ErrConflict
	}
	if m.max > 0 {
		for m.ConcurrentMap.Count() > m.max {
			m.evict()
		}
	}
	return nil
}

func (m *memoryRepo) evict() {
	var oldest *proto.Plan
	for _, v := range m.ConcurrentMap.Items() {
		p := v.(proto.Plan)
		if oldest == nil || p.CreatedAt.Before(oldest.CreatedAt) ||
			(p.CreatedAt.Equal(oldest.CreatedAt) && p.Id < oldest.Id) {
			oldest = &p
		}
	}
	if oldest != nil {
		m.ConcurrentMap.Remove(oldest.Id)
	}
}

func (m *memoryRepo) Get(planId string) (proto.Plan, error) {
	val, exists := m.ConcurrentMap.Get(planId)
	if !exists {
		return proto.Plan{}, serr.PlanNotFound{PlanId: planId}
	}
	return val.(proto.Plan), nil
}

func (m *memoryRepo) List(f proto.PlanFilter) ([]proto.Plan, error) {
	plans := []proto.Plan{}
	for _, v := range m.ConcurrentMap.Items() {
		p := v.(proto.Plan)
		if match(f, p) {
			plans = append(plans, p)
		}
	}
	sortNewest(plans)
	if f.Limit > 0 && uint(len(plans)) > f.Limit {
		plans = plans[:f.Limit]
	}
	return plans, nil
}
