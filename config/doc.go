/*
Copyright 2017-2020, Square, Inc.

Package config provides the ability to load config files into predefined
structures. The manager uses the Manager struct in manager/bin/main.go. It
provides all of the config information needed to run the manager.

Types of config structs provided by this package:

* Manager: all of the config needed to run the manager

  - Server: the configuration for running a webserver (ex: the listen address the
    server should run on, the TLS config the server should run with, etc.)

* Catalog: the directories description files are read from and saved to

* PlanRepo: where plans are kept (memory or MySQL) and how to reach MySQL

* Planner: the resolution timeout and default options

  - HTTPClient: the configuration to use for an HTTP client that will make HTTP
    requests to the manager (ex: the URL of the manager, the TLS config the
    client should use, etc.)

  - TLS: the configuration for constructing a Go tls.Config (ex: the CA cert file
    to use, the key file to use, etc.)
*/
package config
