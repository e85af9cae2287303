package app

import (
	"github.com/specialistvlad/clapgo/internal/registry"
	"github.com/specialistvlad/clapgo/modules/env_vars"
	"github.com/specialistvlad/clapgo/modules/print"
	"github.com/specialistvlad/clapgo/modules/sleep"
)

// coreModules is the definitive list of all modules that are compiled into
// the clapgo binary. Each module value is also its component's target.
var coreModules = []registry.Module{
	&print.Module{},
	&env_vars.Module{},
	&sleep.Module{},
}
