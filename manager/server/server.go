// Copyright 2017-2020, Square, Inc.

// Package server bootstraps and runs the manager.
package server

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/robotology/yarpmanager/config"
	"github.com/robotology/yarpmanager/manager/api"
	"github.com/robotology/yarpmanager/manager/app"
	"github.com/robotology/yarpmanager/manager/plan"
)

type Server struct {
	appCtx app.Context
	api    *api.API
}

func NewServer(appCtx app.Context) *Server {
	return &Server{
		appCtx: appCtx,
	}
}

func (s *Server) Boot() error {
	// Load config file
	cfg, err := s.appCtx.Hooks.LoadConfig(s.appCtx)
	if err != nil {
		return fmt.Errorf("error loading config: %s", err)
	}
	s.appCtx.Config = cfg

	if err := setupLogging(cfg.Log); err != nil {
		return err
	}

	var timeout time.Duration
	if cfg.Planner.Timeout != "" {
		timeout, err = time.ParseDuration(cfg.Planner.Timeout)
		if err != nil {
			return fmt.Errorf("invalid planner.timeout: %s", err)
		}
	}

	// Knowledge base: catalog and resolution, one operation at a time
	k, err := s.appCtx.Factories.MakeKnowledgeBase(s.appCtx)
	if err != nil {
		return fmt.Errorf("MakeKnowledgeBase: %s", err)
	}

	// Catalog: description dirs to load from and save to
	loader, saver, err := s.appCtx.Factories.MakeCatalog(s.appCtx)
	if err != nil {
		return fmt.Errorf("MakeCatalog: %s", err)
	}

	// Plan repo: memory or MySQL
	repo, err := s.appCtx.Factories.MakePlanRepo(s.appCtx)
	if err != nil {
		return fmt.Errorf("MakePlanRepo: %s", err)
	}

	// Plan manager: core logic
	s.appCtx.Plans = plan.NewManager(plan.ManagerConfig{
		KB:             k,
		Loader:         loader,
		Saver:          saver,
		Repo:           repo,
		Timeout:        timeout,
		AutoDependency: cfg.Planner.AutoDependency,
	})
	if err := s.appCtx.Plans.Reload(); err != nil {
		return fmt.Errorf("error loading catalog: %s", err)
	}

	// API: endpoints and controllers
	s.api = api.NewAPI(s.appCtx)

	return nil
}

func (s *Server) Run() error {
	if s.api == nil {
		panic("Server.Run called before Server.Boot")
	}
	return s.api.Run()
}

func (s *Server) API() *api.API {
	return s.api
}

func setupLogging(cfg config.Log) error {
	log.SetOutput(os.Stdout)
	if cfg.Level != "" {
		level, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log.level: %s", err)
		}
		log.SetLevel(level)
	}
	switch cfg.Format {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log.format: %s (expected text or json)", cfg.Format)
	}
	return nil
}
