package outbox

// row is the shape common to order_outbox and execution_outbox: an id to
// delete by, the partition key and topic the publisher needs, and the raw
// JSONB payload as already marshaled bytes.
type row struct {
	table        string
	id           int64
	partitionKey string
	topic        string
	payload      []byte
	correlation  string
}
