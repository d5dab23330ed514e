package utils

import (
	"io"

	"github.com/davecgh/go-spew/spew"
)

func newSpewConfig() *spew.ConfigState {
	cfg := spew.NewDefaultConfig()
	cfg.DisableCapacities = true
	cfg.DisablePointerAddresses = true
	cfg.SortKeys = true
	return cfg
}

func SDump(a ...interface{}) string {
	return newSpewConfig().Sdump(a...)
}

func FDump(w io.Writer, a ...interface{}) {
	newSpewConfig().Fdump(w, a...)
}
