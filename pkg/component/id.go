package component

import "github.com/oklog/ulid/v2"

// NewConnectorID returns a new connector id. Ids are ULIDs, so ids created
// later sort after ids created earlier.
func NewConnectorID() string {
	return ulid.Make().String()
}
