package oracle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"skill-assess/internal/pkg/logger"
)

var (
	ErrUnavailable = errors.New("oracle unavailable")
	ErrTimeout     = errors.New("oracle timed out")
)

// Request is one completion call. System carries the instructions, Prompt the
// candidate-specific payload.
type Request struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Stream yields text chunks until io.EOF.
type Stream interface {
	Next(ctx context.Context) (string, error)
	Close() error
}

type Oracle interface {
	Open(ctx context.Context, req Request) (Stream, error)
	Provider() string
}

// Drain reads the stream to the end and returns the concatenated text.
// Partial output is returned alongside a non-EOF error.
func Drain(ctx context.Context, s Stream) (string, error) {
	var b strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return b.String(), err
		}
		chunk, err := s.Next(ctx)
		b.WriteString(chunk)
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return b.String(), err
		}
	}
}

// Client opens a stream, drains it and classifies failures. A zero timeout
// means the caller's context is the only deadline.
type Client struct {
	oracle  Oracle
	timeout time.Duration
	log     *zap.Logger
}

func NewClient(o Oracle, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{oracle: o, timeout: timeout, log: logger.OrNop(log)}
}

// Complete returns the full response text. Errors wrap ErrTimeout or
// ErrUnavailable so callers can degrade without inspecting transport details.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	ctx, span := otel.Tracer("assessment.oracle").Start(ctx, "oracle.Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("oracle.provider", c.oracle.Provider()),
		attribute.String("oracle.model", req.Model),
	)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log := logger.WithOracle(c.log, c.oracle.Provider(), req.Model)
	started := time.Now()

	text, err := c.complete(ctx, req)
	if err != nil {
		err = classify(ctx, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn("oracle call failed",
			zap.Error(err),
			zap.Int("partial_len", len(text)),
			zap.Duration("elapsed", time.Since(started)),
		)
		return "", err
	}

	span.SetAttributes(attribute.Int("oracle.response_len", len(text)))
	log.Debug("oracle stream drained",
		zap.Int("response_len", len(text)),
		zap.Duration("elapsed", time.Since(started)),
		zap.String("preview", logger.TruncateForLog(text, 120)),
	)
	return text, nil
}

func (c *Client) complete(ctx context.Context, req Request) (string, error) {
	s, err := c.oracle.Open(ctx, req)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			c.log.Debug("close oracle stream", zap.Error(cerr))
		}
	}()
	return Drain(ctx, s)
}

func (c *Client) Provider() string {
	return c.oracle.Provider()
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
