package frontier

import "errors"

var (
	// ErrShardCountMismatch is returned when externally supplied shards do not match the configured width.
	ErrShardCountMismatch = errors.New("frontier: shard count mismatch")
	// ErrForeignContext means a worker cannot be mapped to a shard of this frontier.
	ErrForeignContext = errors.New("frontier: worker does not belong to this frontier")
)

// MisuseError is the panic value of Push and Pop when the worker cannot be mapped to a shard.
type MisuseError struct {
	Op  string
	Err error
}

func (e *MisuseError) Error() string {
	return "frontier." + e.Op + ": " + e.Err.Error()
}

func (e *MisuseError) Unwrap() error {
	return e.Err
}
