//go:build faust

package builtin

import (
	"github.com/justyntemme/faustvst3/pkg/engine"
	"github.com/justyntemme/faustvst3/pkg/engine/faust"
)

const name = "faust"

func newEngine(cfg engine.Config) engine.Engine { return faust.New(cfg) }
