package clients

import "time"

const (
	MAX_RETRIES        = 3
	RETRY_DELAY        = 250 * time.Millisecond
	CONN_WRITE_TIMEOUT = 5 * time.Second
	PING_TIMEOUT       = 3 * time.Second
)
