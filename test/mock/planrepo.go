// Copyright 2017-2020, Square, Inc.

// Package mock provides mocks for testing.
package mock

import (
	"errors"

	"github.com/robotology/yarpmanager/proto"
)

var (
	ErrPlanRepo = errors.New("forced error in plan repo")
)

type PlanRepo struct {
	AddErr   error
	GetResp  proto.Plan
	GetErr   error
	ListResp []proto.Plan
	ListErr  error

	Added []proto.Plan
}

func (r *PlanRepo) Add(p proto.Plan) error {
	if r.AddErr != nil {
		return r.AddErr
	}
	r.Added = append(r.Added, p)
	return nil
}

func (r *PlanRepo) Get(planId string) (proto.Plan, error) {
	return r.GetResp, r.GetErr
}

func (r *PlanRepo) List(f proto.PlanFilter) ([]proto.Plan, error) {
	return r.ListResp, r.ListErr
}
