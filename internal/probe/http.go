package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

func (r *Runner) httpURL(req Request) (string, error) {
	if err := ValidatePath(req.Argument); err != nil {
		return "", err
	}
	if isURL(req.Target) {
		u, err := ValidateURL(req.Target)
		if err != nil {
			return "", err
		}
		if req.Argument != "" {
			u.Path = req.Argument
		}
		return u.String(), nil
	}
	if err := ValidateServiceName(req.Target); err != nil {
		return "", err
	}
	if r.resolver == nil {
		return "", ValidationError("no namespace resolver for service %q", req.Target)
	}
	return r.resolver.Resolve(req.Target) + req.Argument, nil
}

func (r *Runner) runHTTP(ctx context.Context, req Request) (string, any, error) {
	target, err := r.httpURL(req)
	if err != nil {
		return "", nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return target, nil, ValidationError("build request: %v", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := r.opts.HTTPClient.Do(httpReq)
	if err != nil {
		return target, nil, newError(ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return target, nil, newError(ErrTransport, fmt.Errorf("GET %s: unexpected status %s", target, resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return target, nil, newError(ErrTransport, fmt.Errorf("read response from %s: %w", target, err))
	}
	if !json.Valid(body) {
		return target, nil, newError(ErrDecode, fmt.Errorf("decode response from %s: body is not a single JSON document", target))
	}
	return target, json.RawMessage(body), nil
}
