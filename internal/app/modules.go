package app

import (
	"github.com/vk/gridcheck/internal/registry"
	"github.com/vk/gridcheck/modules/execcmd"
	"github.com/vk/gridcheck/modules/httpprobe"
	"github.com/vk/gridcheck/modules/socketio"
	"github.com/vk/gridcheck/modules/sysinfo"
)

// coreModules is the definitive list of all check kinds that are compiled
// into the gridcheck binary.
var coreModules = []registry.Module{
	&execcmd.Module{},
	&httpprobe.Module{},
	&sysinfo.Module{},
	&socketio.Module{},
}
