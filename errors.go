package netbench

//
// Errors
//

import "errors"

// ErrConnectivity indicates that the remote host is not reachable and
// therefore the run cannot start.
var ErrConnectivity = errors.New("netbench: connectivity error")

// ErrMeasurement indicates that a measurement failed. Collectors turn
// this error into absent samples.
var ErrMeasurement = errors.New("netbench: measurement error")

// ErrImpairmentControl indicates that we could not apply or remove
// an impairment from the egress interface.
var ErrImpairmentControl = errors.New("netbench: impairment control error")

// ErrPersistence indicates that we could not durably save results.
var ErrPersistence = errors.New("netbench: persistence error")

// ErrToolExit indicates that a tool exited with a nonzero status.
var ErrToolExit = errors.New("netbench: tool exited with nonzero status")

// ErrToolTimeout indicates that a tool did not terminate in time.
var ErrToolTimeout = errors.New("netbench: tool timed out")

// ErrNoSenderMarker indicates that the throughput tool output does not
// contain the sender summary line.
var ErrNoSenderMarker = errors.New("netbench: no sender marker in output")

// ErrMalformedOutput indicates that a tool output does not match the
// grammar we expect.
var ErrMalformedOutput = errors.New("netbench: malformed tool output")

// ErrNoProbeLines indicates that an echo probe output contains no replies.
var ErrNoProbeLines = errors.New("netbench: no probe replies in output")

// ErrNoDefaultRoute indicates that we could not find the egress interface.
var ErrNoDefaultRoute = errors.New("netbench: no default route")

// ErrInvalidImpairment indicates an invalid [NetworkImpairmentSpec].
var ErrInvalidImpairment = errors.New("netbench: invalid impairment")

// ErrSchemaMismatch indicates that an [IterationRecord] does not contain
// the same metrics of the first record of the [RunResult].
var ErrSchemaMismatch = errors.New("netbench: metric schema mismatch")

// ErrDuplicateMetric indicates an attempt to add a metric name twice to an
// [IterationRecord] or to use a reserved column name.
var ErrDuplicateMetric = errors.New("netbench: duplicate metric")

// ErrInvalidIterationCount indicates that the iteration count is not positive.
var ErrInvalidIterationCount = errors.New("netbench: invalid iteration count")

// ErrInvalidConfig indicates that the [Config] is not valid.
var ErrInvalidConfig = errors.New("netbench: invalid config")
