package dnsclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/miekg/dns"
	"go.uber.org/zap"
)

var ErrNoResolvers = errors.New("no resolvers configured")

type NameError struct {
	Name  string
	Rcode string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("** server can't find %s: %s", strings.TrimSuffix(e.Name, "."), e.Rcode)
}

// Lookup resolves name the way nslookup does inside a pod: short names are
// expanded through the search list, IP addresses get a PTR query. NXDOMAIN
// for every candidate stops at the first resolver; SERVFAIL, REFUSED and
// transport errors move on to the next one.
func (c *Client) Lookup(ctx context.Context, conf *dns.ClientConfig, name string) ([]string, error) {
	if conf == nil || len(conf.Servers) == 0 {
		return nil, ErrNoResolvers
	}

	candidates, reverse := queryNames(conf, name)
	var lastErr error
	for _, server := range conf.Servers {
		server = NormalizeServer(server)
		lines, err := c.lookupServer(ctx, server, candidates, reverse)
		if err == nil {
			return lines, nil
		}
		var nameErr *NameError
		if errors.As(err, &nameErr) {
			if !reverse {
				nameErr.Name = name
			}
			return nil, nameErr
		}
		c.opts.Logger.Debug("resolver failed", zap.String("server", server), zap.Error(err))
		lastErr = err
	}
	return nil, fmt.Errorf("no resolver answered for %s: %w", name, lastErr)
}

func queryNames(conf *dns.ClientConfig, name string) ([]string, bool) {
	if net.ParseIP(name) != nil {
		if arpa, err := dns.ReverseAddr(name); err == nil {
			return []string{arpa}, true
		}
	}
	return conf.NameList(name), false
}

func (c *Client) lookupServer(ctx context.Context, server string, candidates []string, reverse bool) ([]string, error) {
	var err error
	for _, fqdn := range candidates {
		var lines []string
		if reverse {
			lines, err = c.lookupPTR(ctx, server, fqdn)
		} else {
			lines, err = c.lookupAddr(ctx, server, fqdn)
		}
		var nameErr *NameError
		if !errors.As(err, &nameErr) {
			return lines, err
		}
	}
	return nil, err
}

func header(server string) []string {
	host, port := splitServer(server)
	return []string{
		"Server:\t\t" + host,
		fmt.Sprintf("Address:\t%s#%s", host, port),
		"",
	}
}

func (c *Client) query(ctx context.Context, server, fqdn string, qtype uint16) (*dns.Msg, error) {
	resp, _, _, err := c.Exchange(ctx, server, c.BuildQuery(fqdn, qtype))
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("empty response")
	}
	switch resp.Rcode {
	case dns.RcodeSuccess:
		return resp, nil
	case dns.RcodeNameError:
		return nil, &NameError{Name: fqdn, Rcode: dns.RcodeToString[resp.Rcode]}
	default:
		return nil, fmt.Errorf("%s returned %s", server, dns.RcodeToString[resp.Rcode])
	}
}

func (c *Client) lookupAddr(ctx context.Context, server, fqdn string) ([]string, error) {
	lines := header(server)
	answers := 0
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		resp, err := c.query(ctx, server, fqdn, qtype)
		if err != nil {
			return nil, err
		}
		for _, rr := range resp.Answer {
			switch v := rr.(type) {
			case *dns.CNAME:
				if qtype == dns.TypeA {
					lines = append(lines, fmt.Sprintf("%s\tcanonical name = %s", strings.TrimSuffix(v.Hdr.Name, "."), strings.TrimSuffix(v.Target, ".")))
				}
			case *dns.A:
				lines = append(lines, "Name:\t"+strings.TrimSuffix(v.Hdr.Name, "."), "Address: "+v.A.String())
				answers++
			case *dns.AAAA:
				lines = append(lines, "Name:\t"+strings.TrimSuffix(v.Hdr.Name, "."), "Address: "+v.AAAA.String())
				answers++
			}
		}
	}
	if answers == 0 {
		lines = append(lines, fmt.Sprintf("*** Can't find %s: No answer", strings.TrimSuffix(fqdn, ".")))
	}
	return lines, nil
}

func (c *Client) lookupPTR(ctx context.Context, server, arpa string) ([]string, error) {
	resp, err := c.query(ctx, server, arpa, dns.TypePTR)
	if err != nil {
		return nil, err
	}
	lines := header(server)
	answers := 0
	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			lines = append(lines, fmt.Sprintf("%s\tname = %s", strings.TrimSuffix(ptr.Hdr.Name, "."), ptr.Ptr))
			answers++
		}
	}
	if answers == 0 {
		lines = append(lines, fmt.Sprintf("*** Can't find %s: No answer", strings.TrimSuffix(arpa, ".")))
	}
	return lines, nil
}

func splitServer(server string) (string, string) {
	idx := strings.LastIndex(server, ":")
	if idx < 0 {
		return server, "53"
	}
	host := strings.TrimSuffix(strings.TrimPrefix(server[:idx], "["), "]")
	return host, server[idx+1:]
}
