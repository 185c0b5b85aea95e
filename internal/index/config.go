package index

import "github.com/go-sod/kdset/pkg/geom"

type Config struct {
	// Bounds of the region every indexed point must lie in
	DomainXMin float64 `envconfig:"KDSET_DOMAIN_XMIN" default:"0" toml:"domain_xmin"`
	DomainYMin float64 `envconfig:"KDSET_DOMAIN_YMIN" default:"0" toml:"domain_ymin"`
	DomainXMax float64 `envconfig:"KDSET_DOMAIN_XMAX" default:"1" toml:"domain_xmax"`
	DomainYMax float64 `envconfig:"KDSET_DOMAIN_YMAX" default:"1" toml:"domain_ymax"`
	// Point file loaded into the index at startup
	SeedFile string `envconfig:"KDSET_SEED_FILE" toml:"seed_file"`
}

func (c Config) Domain() (geom.Rect, error) {
	return geom.NewRect(c.DomainXMin, c.DomainYMin, c.DomainXMax, c.DomainYMax)
}
