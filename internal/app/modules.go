package app

import (
	"github.com/vk/passgraph/internal/registry"
	"github.com/vk/passgraph/modules/buffer"
	"github.com/vk/passgraph/modules/combine"
	"github.com/vk/passgraph/modules/fill"
	"github.com/vk/passgraph/modules/readback"
)

// coreModules lists the built-in kinds registered when the caller supplies
// none of its own.
var coreModules = []registry.Module{
	&buffer.Module{},
	&fill.Module{},
	&combine.Module{},
	&readback.Module{},
}
