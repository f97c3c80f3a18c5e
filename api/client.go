package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flowci/flow-impex/domain"
	"github.com/flowci/flow-impex/util"
)

const (
	errBodyLimit = 512
)

type (
	// Client the transport boundary to the remote job api, all errors returned are *domain.ScriptError
	// except the local write error from Download
	Client interface {
		// Submit send export or import request and returns the status handle
		Submit(ctx context.Context, req *JobRequest) (domain.JobHandle, error)

		// Status get job status from the handle once
		Status(ctx context.Context, handle domain.JobHandle, token string) (*domain.StatusResponse, error)

		// Download stream file content from url to writer, returns num of bytes written
		Download(ctx context.Context, url string, w io.Writer) (int64, error)
	}

	client struct {
		client *http.Client
	}
)

func NewClient(timeout time.Duration) Client {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		MaxIdleConns:    5,
		IdleConnTimeout: 30 * time.Second,
	}

	return &client{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

func (c *client) Submit(ctx context.Context, req *JobRequest) (domain.JobHandle, error) {
	message := fmt.Sprintf("failed to POST %s", req.Endpoint)

	body, err := req.Open()
	if err != nil {
		return "", domain.NewError(message, domain.ErrBadRequest, err)
	}

	resp, err := c.send(ctx, http.MethodPost, req.Endpoint, req.Token, req.ContentType, body)
	if err != nil {
		return "", Classify(err, message)
	}
	defer resp.Body.Close()

	var out domain.SubmitResponse
	if err = decode(resp, &out); err != nil {
		return "", err
	}

	util.LogDebug("job submitted to %s, status url: %s", req.Endpoint, out.StatusUrl)
	return out.Handle(), nil
}

func (c *client) Status(ctx context.Context, handle domain.JobHandle, token string) (*domain.StatusResponse, error) {
	resp, err := c.send(ctx, http.MethodGet, handle.String(), token, util.HttpMimeJson, nil)
	if err != nil {
		return nil, Classify(err, "failed to check status")
	}
	defer resp.Body.Close()

	var out domain.StatusResponse
	if err = decode(resp, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	message := fmt.Sprintf("failed to download file from %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, domain.NewError(message, domain.ErrBadRequest, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, Classify(err, message)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return 0, unavailable(resp, message)
	}

	writer := &trackWriter{w: w}
	n, err := io.Copy(writer, resp.Body)
	if err != nil {
		if writer.err != nil {
			return n, writer.err
		}
		return n, Classify(&TransportError{Err: err}, message)
	}

	return n, nil
}

// method: GET/POST, url: full url of api
func (c *client) send(ctx context.Context, method, url, token, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		if closer, ok := body.(io.Closer); ok {
			_ = closer.Close()
		}
		return nil, domain.NewError(fmt.Sprintf("invalid request %s %s", method, url), domain.ErrBadRequest, err)
	}

	req.Header.Set(util.HttpHeaderContentType, contentType)
	req.Header.Set(util.HttpHeaderAccept, util.HttpMimeJson)
	req.Header.Set(util.HttpHeaderAuthorization, authHeader(token))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if !isSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		return nil, unavailable(resp, fmt.Sprintf("failed to %s %s", method, url))
	}

	return resp, nil
}

func decode(resp *http.Response, out interface{}) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Classify(&TransportError{Err: err}, "failed to read response")
	}

	if err = json.Unmarshal(raw, out); err != nil {
		return domain.NewError("failed to decode response", domain.ErrUnprocessable, snippet(raw))
	}

	return nil
}

func unavailable(resp *http.Response, message string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
	cause := fmt.Sprintf("status %d: %s", resp.StatusCode, snippet(raw))
	return domain.NewError(message, domain.ErrServiceUnavailable, cause)
}
