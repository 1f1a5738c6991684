// Package pipeline runs one measurement invocation: it synthesizes the payload
// from the session's template, serializes it, compresses it while timing the
// compression, and uploads the result.
//
// Key Components:
//
//   - Session: the operator's inputs (template text, count) and the last
//     MeasurementResult. It is passed into the pipeline explicitly, so the
//     pipeline can be tested without any UI.
//
//   - Runner: executes the stages strictly in order, each stage fully
//     materialized before the next one starts.
//
//   - Outcome: two independent channels, the measurements and the transfer
//     result. A failed upload keeps the measurements valid and visible.
//
// Terminal outcomes of Run:
//
//   - InputParseError: invalid template or count, nothing else runs and the
//     session's last result is cleared.
//   - SerializationError / CompressionError: fatal, no measurements.
//   - Outcome with Transfer.Err: measurements valid, upload failed.
//   - Outcome with Transfer.Ack: full success.
//
// Concurrency:
//
//	A session admits one invocation at a time. Run returns
//	ErrInvocationInFlight immediately while another invocation of the same
//	session is still running (including its network phase); the running
//	invocation is not affected.
package pipeline
