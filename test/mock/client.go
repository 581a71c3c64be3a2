// Copyright 2017-2020, Square, Inc.

package mock

import (
	"errors"

	"github.com/robotology/yarpmanager/proto"
)

var (
	ErrClient = errors.New("forced error in manager client")
)

type Client struct {
	CreatePlanFunc      func(string, *bool, bool) (proto.Plan, error)
	GetPlanFunc         func(string) (proto.Plan, error)
	ListPlansFunc       func(proto.PlanFilter) ([]proto.Plan, error)
	ApplicationsFunc    func() ([]proto.ApplicationSpec, error)
	ApplicationFunc     func(string) (proto.ApplicationSpec, error)
	SaveApplicationFunc func(string) error
	UpdateLoadFunc      func(string, proto.LoadUpdate) error
	ReloadFunc          func() error
	VersionFunc         func() (string, error)
}

func (c *Client) CreatePlan(app string, autoDependency *bool, silent bool) (proto.Plan, error) {
	if c.CreatePlanFunc != nil {
		return c.CreatePlanFunc(app, autoDependency, silent)
	}
	return proto.Plan{}, nil
}

func (c *Client) GetPlan(planId string) (proto.Plan, error) {
	if c.GetPlanFunc != nil {
		return c.GetPlanFunc(planId)
	}
	return proto.Plan{}, nil
}

func (c *Client) ListPlans(f proto.PlanFilter) ([]proto.Plan, error) {
	if c.ListPlansFunc != nil {
		return c.ListPlansFunc(f)
	}
	return nil, nil
}

func (c *Client) Applications() ([]proto.ApplicationSpec, error) {
	if c.ApplicationsFunc != nil {
		return c.ApplicationsFunc()
	}
	return nil, nil
}

func (c *Client) Application(name string) (proto.ApplicationSpec, error) {
	if c.ApplicationFunc != nil {
		return c.ApplicationFunc(name)
	}
	return proto.ApplicationSpec{}, nil
}

func (c *Client) SaveApplication(name string) error {
	if c.SaveApplicationFunc != nil {
		return c.SaveApplicationFunc(name)
	}
	return nil
}

func (c *Client) UpdateLoad(computer string, load proto.LoadUpdate) error {
	if c.UpdateLoadFunc != nil {
		return c.UpdateLoadFunc(computer, load)
	}
	return nil
}

func (c *Client) Reload() error {
	if c.ReloadFunc != nil {
		return c.ReloadFunc()
	}
	return nil
}

func (c *Client) Version() (string, error) {
	if c.VersionFunc != nil {
		return c.VersionFunc()
	}
	return "", nil
}
