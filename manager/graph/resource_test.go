// Copyright 2020, Square, Inc.

package graph

import (
	"testing"
)

func TestSatisfiesResource(t *testing.T) {
	ros := &Resource{Name: "rosmaster", Type: "ros", Version: "1.14.3"}

	tests := []struct {
		name   string
		req    *Resource
		expect bool
	}{
		{"type only", &Resource{Type: "ros", Required: true}, true},
		{"wrong type", &Resource{Type: "gpu", Required: true}, false},
		{"by name", &Resource{Type: "ros", Name: "rosmaster", Required: true}, true},
		{"wrong name", &Resource{Type: "ros", Name: "other", Required: true}, false},
		{"version ok", &Resource{Type: "ros", Version: "~1.14", Required: true}, true},
		{"version too new", &Resource{Type: "ros", Version: ">=2.0.0", Required: true}, false},
		{"not semver", &Resource{Type: "ros", Version: "noetic", Required: true}, false},
	}
	for _, tt := range tests {
		if got := Satisfies(ros, tt.req); got != tt.expect {
			t.Errorf("%s: got %t, expected %t", tt.name, got, tt.expect)
		}
	}

	ros.Disabled = true
	if Satisfies(ros, &Resource{Type: "ros"}) {
		t.Error("disabled provider satisfied a requirement")
	}
}

func TestSatisfiesComputer(t *testing.T) {
	host := NewComputer("icub1")
	host.Memory = 4096
	host.Cores = 4
	host.Platform = Platform{Name: "Linux", Distribution: "ubuntu", Release: "20.4.0"}
	host.Peripherals = []*Resource{{Name: "cam0", Type: "camera"}}

	tests := []struct {
		name   string
		req    Node
		expect bool
	}{
		{"any computer", &Computer{Resource: Resource{Type: COMPUTER_TYPE, Required: true}}, true},
		{"memory", &Computer{Resource: Resource{Type: COMPUTER_TYPE, Required: true}, Memory: 8192}, false},
		{"cores", &Computer{Resource: Resource{Type: COMPUTER_TYPE, Required: true}, Cores: 2}, true},
		{"platform", &Computer{Resource: Resource{Type: COMPUTER_TYPE, Required: true}, Platform: Platform{Name: "linux"}}, true},
		{"windows", &Computer{Resource: Resource{Type: COMPUTER_TYPE, Required: true}, Platform: Platform{Name: "windows"}}, false},
		{"release", &Computer{Resource: Resource{Type: COMPUTER_TYPE, Required: true}, Platform: Platform{Release: ">=18.4"}}, true},
		{"hostname", &Computer{Resource: Resource{Name: "icub2", Type: COMPUTER_TYPE, Required: true}}, false},
		{"peripheral", &Resource{Type: "camera", Required: true}, true},
		{"missing peripheral", &Resource{Type: "gpu", Required: true}, false},
		{"computer with peripheral", &Computer{Resource: Resource{Type: COMPUTER_TYPE, Required: true}, Peripherals: []*Resource{{Type: "camera", Required: true}}}, true},
	}
	for _, tt := range tests {
		if got := Satisfies(host, tt.req); got != tt.expect {
			t.Errorf("%s: got %t, expected %t", tt.name, got, tt.expect)
		}
	}

	if Satisfies(&Resource{Type: COMPUTER_TYPE}, &Computer{Resource: Resource{Type: COMPUTER_TYPE}}) {
		t.Error("generic resource satisfied a computer requirement")
	}
}

func TestSatisfiesMultiResource(t *testing.T) {
	host := NewComputer("icub1")
	host.Memory = 2048
	host.Peripherals = []*Resource{{Type: "camera"}}

	multi := &MultiResource{Resources: []Node{
		&Computer{Resource: Resource{Type: COMPUTER_TYPE, Required: true}, Memory: 1024},
		&Resource{Type: "camera", Required: true},
		&Resource{Type: "gpu", Required: false}, // nice to have
	}}
	if !Satisfies(host, multi) {
		t.Error("host does not satisfy multi-resource, expected it to")
	}

	multi.Resources[2].(*Resource).Required = true
	if Satisfies(host, multi) {
		t.Error("host satisfies multi-resource with required gpu, expected not")
	}
}
