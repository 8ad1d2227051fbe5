// Package state holds the client's application state.  Every remote
// request is tracked as a Result that moves Idle → Pending → Success or
// Failure; reducers are pure functions from (App, Action) to App.
package state

// Status is the lifecycle stage of one request.
type Status int

const (
	Idle Status = iota
	Pending
	Success
	Failure
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failure:
		return "failure"
	}
	return "idle"
}

// Result is the outcome of the latest request for a value.  Value keeps
// the last successful value while a new request is pending or after it
// fails.
type Result[T any] struct {
	Status Status
	Value  T
	Err    string
}

// Start marks a request as in flight and clears the previous error.
func (r Result[T]) Start() Result[T] {
	return Result[T]{Status: Pending, Value: r.Value}
}

// Succeed stores v.
func (r Result[T]) Succeed(v T) Result[T] {
	return Result[T]{Status: Success, Value: v}
}

// Fail records msg and keeps the previous value.
func (r Result[T]) Fail(msg string) Result[T] {
	return Result[T]{Status: Failure, Value: r.Value, Err: msg}
}

func (r Result[T]) Loading() bool { return r.Status == Pending }

// Ready reports whether Value holds a successful result.
func (r Result[T]) Ready() bool { return r.Status == Success }
