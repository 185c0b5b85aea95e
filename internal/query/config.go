package query

import (
	"time"
)

type Config struct {
	RequestTimeout  time.Duration `envconfig:"KDSET_QUERY_REQUEST_TIMEOUT" default:"30s" toml:"-"`
	MaxDataItemsLen int           `envconfig:"KDSET_QUERY_MAX_DATA_ITEMS_LEN" default:"10000" toml:"max_data_items_len"`
	// Upper bound of nearest lookups running at once for a single request
	MaxConcurrentLookups int `envconfig:"KDSET_QUERY_MAX_CONCURRENT_LOOKUPS" default:"8" toml:"max_concurrent_lookups"`
}
