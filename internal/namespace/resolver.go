package namespace

import (
	"fmt"

	"github.com/jaxxstorm/netdiag/internal/config"
)

type Options struct {
	Scheme        string
	ClusterDomain string
	Port          int
}

type Resolver struct {
	identity config.Identity
	opts     Options
}

func New(identity config.Identity, opts Options) *Resolver {
	if opts.Scheme == "" {
		opts.Scheme = "http"
	}
	if opts.ClusterDomain == "" {
		opts.ClusterDomain = config.DefaultClusterDomain
	}
	if opts.Port == 0 {
		opts.Port = config.DefaultPort
	}
	identity = config.NewIdentity(identity.Name, identity.Rack, identity.App)
	return &Resolver{identity: identity, opts: opts}
}

func (r *Resolver) Namespace() string {
	return r.identity.Namespace()
}

func (r *Resolver) Host(name string) string {
	return fmt.Sprintf("%s.%s.%s", name, r.identity.Namespace(), r.opts.ClusterDomain)
}

func (r *Resolver) Resolve(name string) string {
	return fmt.Sprintf("%s://%s:%d", r.opts.Scheme, r.Host(name), r.opts.Port)
}
