package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
)

func (r *Runner) commandArgv(req Request) ([][]string, error) {
	t, ok := tools[req.Argument]
	if !ok {
		return nil, ValidationError("unsupported tool %q (allowed: %s)", req.Argument, strings.Join(Tools(), ", "))
	}

	switch t.target {
	case targetHost:
		if err := ValidateHost(req.Target); err != nil {
			return nil, err
		}
		return t.argv(req.Target), nil
	case targetURL:
		u, err := r.httpURL(Request{Kind: req.Kind, Target: req.Target})
		if err != nil {
			return nil, err
		}
		return t.argv(u), nil
	default:
		if req.Target != "" {
			return nil, ValidationError("tool %q does not take a target", req.Argument)
		}
		return t.argv(""), nil
	}
}

func (r *Runner) runCommand(ctx context.Context, req Request) (string, any, error) {
	candidates, err := r.commandArgv(req)
	if err != nil {
		return "", nil, err
	}
	address := ""
	if argv := candidates[0]; len(argv) > 1 && req.Target != "" {
		address = argv[len(argv)-1]
	}

	out, err := r.execFirst(ctx, candidates)
	if err != nil {
		return address, nil, err
	}
	return address, splitLines(out), nil
}

func (r *Runner) execFirst(ctx context.Context, candidates [][]string) ([]byte, error) {
	var errs []error
	for _, argv := range candidates {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		path, err := r.opts.Executor.LookPath(argv[0])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", argv[0], err))
			continue
		}
		out, err := r.opts.Executor.Run(ctx, path, argv[1:]...)
		if err == nil {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w (%v)", ctxErr, err)
		}
		msg := strings.Join(argv, " ") + ": " + err.Error()
		if detail := string(bytes.TrimSpace(out)); detail != "" {
			msg += ": " + detail
		}
		errs = append(errs, errors.New(msg))
	}
	if ctx.Err() != nil {
		return nil, newError(ErrTransport, errors.Join(errs...))
	}
	return nil, newError(ErrTool, errors.Join(errs...))
}
