package probe

import (
	"context"
	"errors"
	"fmt"
)

func (r *Runner) runDNS(ctx context.Context, req Request) (string, any, error) {
	if err := ValidateHost(req.Target); err != nil {
		return "", nil, err
	}

	if r.opts.DNSMode == DNSModeNative {
		lines, err := r.nativeLookup(ctx, req.Target)
		if err != nil {
			return req.Target, nil, err
		}
		return req.Target, lines, nil
	}

	out, err := r.execFirst(ctx, [][]string{{"nslookup", req.Target}})
	if err != nil {
		return req.Target, nil, err
	}
	return req.Target, splitLines(out), nil
}

func (r *Runner) nativeLookup(ctx context.Context, host string) ([]string, error) {
	if r.opts.DNS == nil || r.opts.ResolvConf == nil {
		return nil, newError(ErrTool, errors.New("native dns lookup is not configured"))
	}
	conf, err := r.opts.ResolvConf()
	if err != nil {
		return nil, newError(ErrTool, fmt.Errorf("load resolv.conf: %w", err))
	}
	lines, err := r.opts.DNS.Lookup(ctx, conf, host)
	if err != nil {
		return nil, newError(ErrTool, err)
	}
	return lines, nil
}
