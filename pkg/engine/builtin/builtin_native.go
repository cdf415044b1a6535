//go:build !faust

package builtin

import (
	"github.com/justyntemme/faustvst3/pkg/engine"
	"github.com/justyntemme/faustvst3/pkg/engine/native"
)

const name = "native"

func newEngine(cfg engine.Config) engine.Engine { return native.New(cfg) }
