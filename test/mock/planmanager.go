// Copyright 2017-2020, Square, Inc.

package mock

import (
	"errors"

	"github.com/robotology/yarpmanager/proto"
)

var (
	ErrPlanManager = errors.New("forced error in plan manager")
)

type PlanManager struct {
	CreateFunc          func(proto.CreatePlan) (proto.Plan, error)
	GetFunc             func(string) (proto.Plan, error)
	ListFunc            func(proto.PlanFilter) ([]proto.Plan, error)
	ApplicationsFunc    func() []proto.ApplicationSpec
	ApplicationFunc     func(string) (proto.ApplicationSpec, error)
	UpdateLoadFunc      func(string, proto.LoadUpdate) error
	SaveApplicationFunc func(string) error
	ReloadFunc          func() error
}

func (m *PlanManager) Create(cp proto.CreatePlan) (proto.Plan, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(cp)
	}
	return proto.Plan{}, nil
}

func (m *PlanManager) Get(planId string) (proto.Plan, error) {
	if m.GetFunc != nil {
		return m.GetFunc(planId)
	}
	return proto.Plan{}, nil
}

func (m *PlanManager) List(f proto.PlanFilter) ([]proto.Plan, error) {
	if m.ListFunc != nil {
		return m.ListFunc(f)
	}
	return []proto.Plan{}, nil
}

func (m *PlanManager) Applications() []proto.ApplicationSpec {
	if m.ApplicationsFunc != nil {
		return m.ApplicationsFunc()
	}
	return []proto.ApplicationSpec{}
}

func (m *PlanManager) Application(name string) (proto.ApplicationSpec, error) {
	if m.ApplicationFunc != nil {
		return m.ApplicationFunc(name)
	}
	return proto.ApplicationSpec{}, nil
}

func (m *PlanManager) UpdateLoad(computer string, load proto.LoadUpdate) error {
	if m.UpdateLoadFunc != nil {
		return m.UpdateLoadFunc(computer, load)
	}
	return nil
}

func (m *PlanManager) SaveApplication(name string) error {
	if m.SaveApplicationFunc != nil {
		return m.SaveApplicationFunc(name)
	}
	return nil
}

func (m *PlanManager) Reload() error {
	if m.ReloadFunc != nil {
		return m.ReloadFunc()
	}
	return nil
}
