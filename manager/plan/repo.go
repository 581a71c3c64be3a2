// Copyright 2020, Square, Inc.

package plan

import (
	"errors"
	"sort"

	"github.com/robotology/yarpmanager/proto"
)

var (
	ErrConflict = errors.New("plan already exists")
)

// A Repo stores plans. Plans are immutable once added.
type Repo interface {
	// Add saves a new plan. It returns ErrConflict if a plan with the same
	// id exists.
	Add(proto.Plan) error

	// Get returns the plan with the given id or errors.PlanNotFound.
	Get(planId string) (proto.Plan, error)

	// List returns the plans matching the filter, newest first.
	List(proto.PlanFilter) ([]proto.Plan, error)
}

// sortNewest orders plans newest first. Plans created at the same time are
// ordered by id, which grows with time too.
func sortNewest(plans []proto.Plan) {
	sort.Slice(plans, func(i, j int) bool {
		if !plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].CreatedAt.After(plans[j].CreatedAt)
		}
		return plans[i].Id > plans[j].Id
	})
}

func match(f proto.PlanFilter, p proto.Plan) bool {
	if f.Application != "" && f.Application != p.Application {
		return false
	}
	if f.State != proto.STATE_UNKNOWN && f.State != p.State {
		return false
	}
	return true
}
