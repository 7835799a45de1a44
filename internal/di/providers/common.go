package providers

import "time"

// shutdownTimeout bounds graceful teardown of the HTTP server and the
// SSE manager; the store and index close synchronously after.
const shutdownTimeout = 30 * time.Second
