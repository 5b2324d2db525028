package config

import (
	"strings"
	"time"
)

const (
	UnknownRack = "unknown-rack"
	UnknownApp  = "unknown-app"

	DefaultPort          = 3000
	DefaultClusterDomain = "svc.cluster.local"
	DefaultProbeTimeout  = 5 * time.Second
	DefaultParallelism   = 4
)

type Role string

const (
	RoleFrontend Role = "frontend"
	RoleAPI      Role = "api"
	RoleDatabase Role = "database"
)

func (r Role) External() bool {
	return r == RoleFrontend
}

func (r Role) Type() string {
	if r.External() {
		return "external"
	}
	return "internal"
}

type Identity struct {
	Name string
	Rack string
	App  string
}

func NewIdentity(name, rack, app string) Identity {
	rack = strings.TrimSpace(rack)
	if rack == "" {
		rack = UnknownRack
	}
	app = strings.TrimSpace(app)
	if app == "" {
		app = UnknownApp
	}
	return Identity{Name: strings.TrimSpace(name), Rack: rack, App: app}
}

func (i Identity) Namespace() string {
	return i.Rack + "-" + i.App
}

type Config struct {
	Role          Role
	Port          int
	Identity      Identity
	ClusterDomain string
	TargetPort    int
	ProbeTimeout  time.Duration
	Parallelism   int
	DNSMode       string
}

func (c Config) WithDefaults() Config {
	if c.Role == "" {
		c.Role = RoleFrontend
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Identity.Name == "" {
		c.Identity.Name = string(c.Role)
	}
	if c.Identity.Rack == "" {
		c.Identity.Rack = UnknownRack
	}
	if c.Identity.App == "" {
		c.Identity.App = UnknownApp
	}
	if c.ClusterDomain == "" {
		c.ClusterDomain = DefaultClusterDomain
	}
	if c.TargetPort == 0 {
		c.TargetPort = DefaultPort
	}
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = DefaultProbeTimeout
	}
	if c.Parallelism == 0 {
		c.Parallelism = DefaultParallelism
	}
	if c.DNSMode == "" {
		c.DNSMode = "tool"
	}
	return c
}
