package types

import "fmt"

// CustomError carries an HTTP status alongside a message so handlers and
// middleware can short-circuit with the right response code.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// FetchError means an external contest source was unreachable or answered
// with a non-OK status. It aborts the aggregation run that saw it.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch from %s failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means an external source answered with a payload this service
// could not decode.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s response failed: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TransactionError means a replace-all persistence operation failed and was
// rolled back. The previous contest set is intact.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("contest replace transaction failed: %v", e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// AggregationError wraps any failure that aborted an aggregation run.
// No partial contest set is ever published under this error.
type AggregationError struct {
	Err error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation aborted: %v", e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// SendError is one recipient's failed reminder delivery. It is logged and
// never aborts the sweep that produced it.
type SendError struct {
	Recipient string
	Err       error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("reminder to %s failed: %v", e.Recipient, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }
