package dnsclient

import (
	"strings"

	"github.com/miekg/dns"
)

const ResolvConfPath = "/etc/resolv.conf"

func SystemConfig() (*dns.ClientConfig, error) {
	return LoadConfig(ResolvConfPath)
}

func LoadConfig(path string) (*dns.ClientConfig, error) {
	conf, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	conf.Servers = uniqueResolvers(conf.Servers)
	return conf, nil
}

func uniqueResolvers(resolvers []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, resolver := range resolvers {
		resolver = strings.TrimSpace(resolver)
		if resolver == "" {
			continue
		}
		key := strings.ToLower(resolver)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, resolver)
	}
	return out
}
