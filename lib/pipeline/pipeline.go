package pipeline

import (
	"context"
	"github.com/ValentinKolb/plbench/lib/measure"
	"github.com/ValentinKolb/plbench/lib/payload"
	"github.com/ValentinKolb/plbench/rpc/client"
	"github.com/ValentinKolb/plbench/rpc/codec"
	"github.com/ValentinKolb/plbench/rpc/serializer"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
	"time"
)

var Logger = logger.GetLogger("pipeline")

// Uploader delivers a compressed payload and returns the acknowledgement text
// (implemented by *client.UploadClient)
type Uploader interface {
	Upload(ctx context.Context, u client.Upload) (string, error)
}

// TransferResult is the second channel of an Outcome. Exactly one of Ack, Err
// and Skipped is meaningful.
type TransferResult struct {
	Ack     string        `json:"ack,omitempty"`
	Err     error         `json:"-"`
	Skipped bool          `json:"skipped,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns,omitempty"`
}

// OK reports whether the upload was acknowledged
func (t TransferResult) OK() bool {
	return !t.Skipped && t.Err == nil
}

// Outcome is the result of one invocation that got past compression.
// Metrics are valid regardless of the transfer result.
type Outcome struct {
	InvocationID string                    `json:"invocation_id"`
	Params       Params                    `json:"params"`
	Serializer   string                    `json:"serializer"`
	Codec        string                    `json:"codec"`
	Raw          measure.Raw               `json:"raw"`
	Metrics      measure.MeasurementResult `json:"metrics"`
	Transfer     TransferResult            `json:"transfer"`
}

// Runner executes the measurement pipeline:
// synthesize -> serialize -> compress (timed) -> upload.
// A Runner holds no per-invocation state and can serve many sessions.
type Runner struct {
	serializer serializer.IPayloadSerializer
	codec      codec.ICodec
	uploader   Uploader
	collector  *measure.Collector
}

// NewRunner creates a runner. uploader may be nil, the transfer is skipped then.
// collector may be nil if no process metrics are wanted.
//
// Usage:
//
//	r := pipeline.NewRunner(
//		serializer.NewJSONSerializer(),
//		codec.NewDeflateCodec(),
//		uploadClient,
//		measure.NewCollector(),
//	)
//	outcome, err := r.Run(ctx, pipeline.NewSession())
func NewRunner(
	s serializer.IPayloadSerializer,
	c codec.ICodec,
	uploader Uploader,
	collector *measure.Collector,
) *Runner {
	return &Runner{
		serializer: s,
		codec:      c,
		uploader:   uploader,
		collector:  collector,
	}
}

// Run executes one invocation for the session.
//
// The returned error is one of *InputParseError, *SerializationError,
// *CompressionError or ErrInvocationInFlight; in these cases no Outcome is
// produced. A failed upload is not an error of Run: the Outcome carries the
// measurements and Transfer.Err holds a *TransferError.
//
// While Run is in progress further calls for the same session are rejected
// with ErrInvocationInFlight.
func (r *Runner) Run(ctx context.Context, session *Session) (*Outcome, error) {
	if !session.acquire() {
		Logger.Warningf("Rejected invocation: previous invocation still in flight")
		return nil, ErrInvocationInFlight
	}
	defer session.release()

	params := session.Params()
	id := uuid.NewString()

	Logger.Infof("Starting invocation %s (count=%d, serializer=%s, codec=%s)",
		id, params.Count, r.serializer.Name(), r.codec.Name())

	// Stage 1: parse and synthesize
	record, err := payload.ParseRecord(params.Template)
	if err != nil {
		return nil, r.abort(session, "parse", &InputParseError{Field: "template", Err: err})
	}

	rows, err := payload.Synthesize(record, params.Count)
	if err != nil {
		return nil, r.abort(session, "parse", &InputParseError{Field: "count", Err: err})
	}

	// Stage 2: serialize
	data, beforeBytes, err := serializer.Serialize(r.serializer, rows)
	if err != nil {
		return nil, r.abort(session, "serialize", &SerializationError{Err: err})
	}

	// Stage 3: compress
	compressed, err := codec.CompressTimed(r.codec, data)
	if err != nil {
		return nil, r.abort(session, "compress", &CompressionError{Codec: r.codec.Name(), Err: err})
	}

	raw := measure.Raw{
		BeforeBytes: beforeBytes,
		AfterBytes:  compressed.AfterBytes,
		Elapsed:     compressed.Elapsed,
	}
	outcome := &Outcome{
		InvocationID: id,
		Params:       params,
		Serializer:   r.serializer.Name(),
		Codec:        r.codec.Name(),
		Raw:          raw,
		Metrics:      raw.Result(),
	}

	// the measurements are final at this point, the upload cannot change them
	metrics := outcome.Metrics
	session.setLast(&metrics)
	if r.collector != nil {
		r.collector.ObserveCompression(r.codec.Name(), raw)
	}

	Logger.Infof("Invocation %s: %d -> %d bytes (%.1f%% smaller) in %s",
		id, raw.BeforeBytes, raw.AfterBytes, raw.Reduction(), raw.Elapsed)

	// Stage 4: transfer
	outcome.Transfer = r.transfer(ctx, id, compressed.Data, data)

	return outcome, nil
}

// transfer uploads the compressed data; failures are logged and returned, never raised
func (r *Runner) transfer(ctx context.Context, id string, compressed, raw []byte) TransferResult {
	if r.uploader == nil {
		Logger.Debugf("Invocation %s: no uploader configured, transfer skipped", id)
		return TransferResult{Skipped: true}
	}

	start := time.Now()
	ack, err := r.uploader.Upload(ctx, client.Upload{
		Body:            compressed,
		ContentEncoding: r.codec.ContentEncoding(),
		RequestID:       id,
		Raw:             raw,
	})
	elapsed := time.Since(start)

	if r.collector != nil {
		r.collector.ObserveTransfer(r.codec.Name(), elapsed, err)
	}

	if err != nil {
		transferErr := &TransferError{Err: err}
		if c, ok := r.uploader.(interface{ Endpoint() string }); ok {
			transferErr.Endpoint = c.Endpoint()
		}
		Logger.Errorf("Invocation %s: error sending data: %v", id, transferErr)
		return TransferResult{Err: transferErr, Elapsed: elapsed}
	}

	Logger.Infof("Invocation %s: acknowledged after %s: %s", id, elapsed, ack)
	return TransferResult{Ack: ack, Elapsed: elapsed}
}

// abort clears the session's last result and records the failed stage
func (r *Runner) abort(session *Session, stage string, err error) error {
	session.setLast(nil)
	if r.collector != nil {
		r.collector.ObserveFailure(stage)
	}
	Logger.Errorf("Invocation aborted: %v", err)
	return err
}
