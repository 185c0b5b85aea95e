// Package buildinfo reports the version data stamped in at link time, e.g.
//
//	-ldflags "-X github.com/prometheus/common/version.Version=v0.1.0"
package buildinfo

import (
	"github.com/prometheus/common/version"
)

const Graffiti = " _         _          _   \n| | ____ | |___  ___| |_ \n| |/ / _` / __|/ _ \\ __|\n|   < (_| \\__ \\  __/ |_ \n|_|\\_\\__,_|___/\\___|\\__|\n\n"

var Name = "kdset"

type buildinfo struct{}

func (buildinfo) Tag() string {
	return version.Version
}

func (buildinfo) Name() string {
	return Name
}

func (buildinfo) Time() string {
	return version.BuildDate
}

// String is the multi-line banner printed on start.
func (buildinfo) String() string {
	return version.Print(Name)
}

// Short is a one-line summary for log fields.
func (buildinfo) Short() string {
	return version.Info()
}

var Info buildinfo
