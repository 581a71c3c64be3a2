// Copyright 2017-2020, Square, Inc.

package config

import (
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

///////////////////////////////////////////////////////////////////////////////
// High-Level Config Structs
///////////////////////////////////////////////////////////////////////////////

// The config used by the manager. This is read from in manager/bin/main.go
type Manager struct {
	// The config that the manager web server will run with.
	Server `yaml:"server"`

	// Where the module, application and resource descriptions are.
	Catalog Catalog `yaml:"catalog"`

	// Where resolved plans are kept.
	PlanRepo PlanRepo `yaml:"plan_repo"`

	// How applications are resolved.
	Planner Planner `yaml:"planner"`

	// Logging options.
	Log Log `yaml:"log"`
}

///////////////////////////////////////////////////////////////////////////////
// Config Components
///////////////////////////////////////////////////////////////////////////////

// Configuration for a web server.
type Server struct {
	// The address the server will listen on (ex: "127.0.0.1:80").
	ListenAddress string `yaml:"listen_address"`

	// The TLS config used by the server.
	TLS `yaml:"tls_config"`
}

// Configuration for an HTTP client.
type HTTPClient struct {
	// The base URL of the manager that this client communicates with
	// (ex: https://127.0.0.1:9340).
	ServerURL string `yaml:"server_url"`

	// The TLS config used by the client.
	TLS `yaml:"tls_config"`
}

// Configuration for the catalog.
type Catalog struct {
	// Directories that hold description files. Every file ending in .yaml
	// is read, recursively. A name defined in more than one directory is
	// loaded from the first one; later definitions of an application are
	// renamed name(n).
	Dirs []string `yaml:"dirs"`

	// The directory applications are saved to. Defaults to the first of
	// Dirs.
	SaveDir string `yaml:"save_dir"`
}

// Configuration for the plan repo.
type PlanRepo struct {
	// The type of backend to use for plans. Choices are: memory, mysql.
	// If this is set to mysql, the MySQL config is used.
	Type string `yaml:"type"`

	// The maximum number of plans the memory repo keeps. The oldest plan is
	// dropped when a new one would exceed it. 0 means no limit.
	MaxPlans int `yaml:"max_plans"`

	// The config used to connect to MySQL (if Type is mysql).
	MySQL SQLDb `yaml:"mysql"`
}

// Configuration for a SQL database.
type SQLDb struct {
	// The full Data Source Name (DSN) of the sql database (see
	// https://github.com/go-sql-driver/mysql#dsn-data-source-name).
	//
	// Note: if a TLS config is specified within the SQLDb struct, it
	// will automatically get appended to the DSN (you don't have to
	// include it in the string). Also, "parseTime=true" will always be
	// appended to the DSN, so you don't need to add that either.
	DSN string `yaml:"dsn"`

	// The TLS config used to connect to the sql database.
	TLS `yaml:"tls_config"`

	// How many times to try connecting on startup before giving up.
	ConnectTries int `yaml:"connect_tries"`
}

// Configuration for the planner.
type Planner struct {
	// How long one resolution may take (ex: "5s"). A resolution that takes
	// longer is abandoned and the request fails. Empty means no limit.
	Timeout string `yaml:"timeout"`

	// Used when a request does not set autoDependency.
	AutoDependency bool `yaml:"auto_dependency"`
}

// Logging configuration.
type Log struct {
	// Log level: debug, info, warning, error.
	Level string `yaml:"level"`

	// Log format: text or json.
	Format string `yaml:"format"`
}

// TLS configuration.
type TLS struct {
	// The certificate file to use.
	CertFile string `yaml:"cert_file"`

	// The key file to use.
	KeyFile string `yaml:"key_file"`

	// The CA file to use.
	CAFile string `yaml:"ca_file"`
}

///////////////////////////////////////////////////////////////////////////////
// Loading Config
///////////////////////////////////////////////////////////////////////////////

// Load loads a configuration file into the struct pointed to by the
// configStruct argument.
func Load(configFile string, configStruct interface{}) error {
	// Make sure the file exists.
	_, err := os.Stat(configFile)
	if err != nil {
		return err
	}

	// Read the file.
	data, err := ioutil.ReadFile(configFile)
	if err != nil {
		return err
	}

	// Unmarshal the contents of the file into the provided struct.
	err = yaml.Unmarshal(data, configStruct)
	if err != nil {
		return err
	}

	return nil
}
