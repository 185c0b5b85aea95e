package insert

import (
	"time"
)

type Config struct {
	RequestTimeout  time.Duration `envconfig:"KDSET_INSERT_REQUEST_TIMEOUT" default:"60s" toml:"-"`
	MaxDataItemsLen int           `envconfig:"KDSET_INSERT_MAX_DATA_ITEMS_LEN" default:"100000" toml:"max_data_items_len"`
}
