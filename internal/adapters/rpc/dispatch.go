package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"foldy/sal/internal/domains/contracts"
	"foldy/sal/internal/platform/ratelimiter"
)

const defaultMaxBodyBytes int64 = 1 << 20 // 1 MiB

const (
	outcomeOK           = "ok"
	outcomeDomainError  = "domain_error"
	outcomeBackendError = "backend_error"
	outcomeEncodeError  = "encode_error"
	outcomeBadRequest   = "bad_request"
	outcomeRateLimited  = "rate_limited"
)

// Dispatcher carries the settings shared by every operation handler. The zero
// value is usable: default logger, no metrics, no rate limiting.
type Dispatcher struct {
	Logger       *slog.Logger
	Metrics      *Metrics
	Limiter      *ratelimiter.MapLimiter
	MaxBodyBytes int64
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func (d *Dispatcher) logger() *slog.Logger {
	if d == nil || d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func (d *Dispatcher) maxBodyBytes() int64 {
	if d == nil || d.MaxBodyBytes <= 0 {
		return defaultMaxBodyBytes
	}
	return d.MaxBodyBytes
}

func (d *Dispatcher) allow(r *http.Request, now time.Time) bool {
	if d == nil {
		return true
	}
	return d.Limiter.Allow(rateLimitKey(r), now)
}

func (d *Dispatcher) observe(op, outcome string, started time.Time) {
	if d == nil {
		return
	}
	d.Metrics.observe(op, outcome, time.Since(started))
}

// dispatch adapts one Backend operation to HTTP: decode the request envelope,
// call the operation, and encode either its response (200, even when the
// response carries an in-band error) or the {"error": ...} envelope (500).
func dispatch[Req, Resp any](d *Dispatcher, op string, call func(context.Context, Req) (Resp, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		reqID := requestID(r)
		w.Header().Set(requestIDHeader, reqID)
		logger := d.logger().With("request_id", reqID, "operation", op)

		if !d.allow(r, started) {
			d.observe(op, outcomeRateLimited, started)
			logger.Warn("rpc rate limited", "client_key", rateLimitKey(r))
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}

		req, err := decodeEnvelope[Req](w, r, d.maxBodyBytes())
		if err != nil {
			d.observe(op, outcomeBadRequest, started)
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				logger.Warn("rpc body too large", "limit", maxErr.Limit)
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			logger.Warn("rpc invalid body", "error", err)
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if logger.Enabled(r.Context(), slog.LevelDebug) {
			logger.Debug("rpc request", "payload", fmt.Sprintf("%+v", req))
		}

		resp, err := invoke(r.Context(), call, req)
		if err != nil {
			d.observe(op, outcomeBackendError, started)
			logger.Error("rpc failed",
				"category", contracts.ErrorCategory(err),
				"error", err,
				"latency_ms", time.Since(started).Milliseconds())
			writeErrorEnvelope(w, logger, err.Error())
			return
		}

		body, err := marshalJSON(resp)
		if err != nil {
			err = contracts.WrapCategorizedError(contracts.ErrorCategoryEncoding, fmt.Errorf("error serializing response: %w", err))
			d.observe(op, outcomeEncodeError, started)
			logger.Error("rpc encode failed", "category", contracts.ErrorCategory(err), "error", err)
			writeErrorEnvelope(w, logger, err.Error())
			return
		}

		outcome := outcomeOK
		if inBand, ok := any(resp).(contracts.InBand); ok && inBand.IsError() {
			outcome = outcomeDomainError
			msg, _ := inBand.ErrorMessage()
			logger.Warn("rpc domain error", "error", msg)
		}
		d.observe(op, outcome, started)
		logger.Info("rpc response", "outcome", outcome, "latency_ms", time.Since(started).Milliseconds())
		writeJSON(w, logger, http.StatusOK, body)
	}
}

func decodeEnvelope[Req any](w http.ResponseWriter, r *http.Request, limit int64) (Req, error) {
	var req Req
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after request object")
		}
		return req, err
	}
	return req, nil
}

// invoke turns a panicking backend into a transport-level failure so one bad
// request cannot take the process down.
func invoke[Req, Resp any](ctx context.Context, call func(context.Context, Req) (Resp, error), req Req) (resp Resp, err error) {
	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler {
				panic(v)
			}
			err = contracts.WrapCategorizedError(contracts.ErrorCategoryBackend, fmt.Errorf("backend panic: %v", v))
		}
	}()
	return call(ctx, req)
}

// marshalJSON encodes v without HTML escaping and without the trailing newline
// json.Encoder appends, so bodies match the plain serialization of v.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func writeErrorEnvelope(w http.ResponseWriter, logger *slog.Logger, msg string) {
	body, err := marshalJSON(errorEnvelope{Error: msg})
	if err != nil {
		body = []byte(`{"error":"internal error"}`)
	}
	writeJSON(w, logger, http.StatusInternalServerError, body)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logger.Debug("rpc write failed", "error", err)
	}
}
