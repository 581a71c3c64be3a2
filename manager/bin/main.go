// Copyright 2017-2020, Square, Inc.

package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/robotology/yarpmanager/manager/app"
	"github.com/robotology/yarpmanager/manager/server"
)

func main() {
	s := server.NewServer(app.Defaults())
	if err := s.Boot(); err != nil {
		log.Fatalf("error starting the manager: %s", err)
	}
	err := s.Run()
	log.Fatalf("manager stopped: %s", err)
}
