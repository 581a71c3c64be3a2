// Copyright 2017-2020, Square, Inc.

// Package app provides the manager's application context: the config, the
// hooks and the factories used to boot it. Replace a hook or factory in
// Defaults() to customize the manager without changing its code.
package app

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	log "github.com/sirupsen/logrus"

	"github.com/robotology/yarpmanager/config"
	"github.com/robotology/yarpmanager/manager/desc"
	"github.com/robotology/yarpmanager/manager/diag"
	"github.com/robotology/yarpmanager/manager/kb"
	"github.com/robotology/yarpmanager/manager/plan"
	"github.com/robotology/yarpmanager/retry"
	"github.com/robotology/yarpmanager/util"
)

type Context struct {
	Hooks     Hooks
	Factories Factories

	Config config.Manager

	// Set by server.Boot
	Plans plan.Manager
}

type Factories struct {
	MakeKnowledgeBase func(Context) (*kb.KnowledgeBase, error)
	MakeCatalog       func(Context) (plan.Loader, kb.AppSaver, error)
	MakePlanRepo      func(Context) (plan.Repo, error)
	MakeDbConnPool    func(Context) (*sql.DB, error)
}

type Hooks struct {
	LoadConfig func(Context) (config.Manager, error)
}

func Defaults() Context {
	return Context{
		Factories: Factories{
			MakeKnowledgeBase: MakeKnowledgeBase,
			MakeCatalog:       MakeCatalog,
			MakePlanRepo:      MakePlanRepo,
			MakeDbConnPool:    MakeDbConnPool,
		},
		Hooks: Hooks{
			LoadConfig: LoadConfig,
		},
	}
}

func LoadConfig(ctx Context) (config.Manager, error) {
	var cfgFile string
	if len(os.Args) > 1 {
		cfgFile = os.Args[1]
	} else {
		switch os.Getenv("ENVIRONMENT") {
		case "staging":
			cfgFile = "config/staging.yaml"
		case "production":
			cfgFile = "config/production.yaml"
		default:
			cfgFile = "config/development.yaml"
		}
	}
	var cfg config.Manager
	err := config.Load(cfgFile, &cfg)
	return cfg, err
}

func MakeKnowledgeBase(ctx Context) (*kb.KnowledgeBase, error) {
	return kb.New(diag.NewLogger(log.WithField("component", "kb"))), nil
}

// MakeCatalog returns the loader for the configured description directories
// and the saver that writes applications to the save directory.
func MakeCatalog(ctx Context) (plan.Loader, kb.AppSaver, error) {
	dirs := ctx.Config.Catalog.Dirs
	if len(dirs) == 0 {
		return nil, nil, fmt.Errorf("no catalog dirs configured")
	}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			return nil, nil, fmt.Errorf("catalog dir %s: %s", dir, err)
		}
	}
	saveDir := ctx.Config.Catalog.SaveDir
	if saveDir == "" {
		saveDir = dirs[0]
	}
	logFunc := log.WithField("component", "catalog").Printf
	return desc.NewDirsLoader(dirs, logFunc), desc.NewSaver(saveDir, logFunc), nil
}

func MakePlanRepo(ctx Context) (plan.Repo, error) {
	switch ctx.Config.PlanRepo.Type {
	case "", "memory":
		return plan.NewMemoryRepo(ctx.Config.PlanRepo.MaxPlans), nil
	case "mysql":
		db, err := ctx.Factories.MakeDbConnPool(ctx)
		if err != nil {
			return nil, err
		}
		return plan.NewMySQLRepo(db), nil
	}
	return nil, fmt.Errorf("invalid plan_repo.type: %s (expected memory or mysql)", ctx.Config.PlanRepo.Type)
}

func MakeDbConnPool(ctx Context) (*sql.DB, error) {
	dbcfg := ctx.Config.PlanRepo.MySQL
	dsn := dbcfg.DSN + "?parseTime=true" // always needs to be set
	if dbcfg.TLS.CAFile != "" && dbcfg.TLS.CertFile != "" && dbcfg.TLS.KeyFile != "" {
		tlsConfig, err := util.NewTLSConfig(dbcfg.TLS.CAFile, dbcfg.TLS.CertFile, dbcfg.TLS.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("error loading database TLS config: %s", err)
		}
		mysql.RegisterTLSConfig("custom", tlsConfig)
		dsn += "&tls=custom"
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("error creating sql.DB: %s", err)
	}
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(12 * time.Hour)

	tries := dbcfg.ConnectTries
	if tries < 1 {
		tries = 1
	}
	err = retry.Do(tries, 2*time.Second, db.Ping, func(err error) {
		log.Warnf("cannot connect to MySQL, retrying: %s", err)
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to MySQL: %s", err)
	}
	return db, nil
}
