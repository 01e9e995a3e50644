package app

import (
	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/modules/delay"
	"github.com/specialistvlad/toolpipe/modules/echo"
	"github.com/specialistvlad/toolpipe/modules/env_vars"
	"github.com/specialistvlad/toolpipe/modules/http_request"
	"github.com/specialistvlad/toolpipe/modules/print"
	"github.com/specialistvlad/toolpipe/modules/s3_upload"
	"github.com/specialistvlad/toolpipe/modules/set_variable"
	"github.com/specialistvlad/toolpipe/modules/socketio"
)

// coreModules is the definitive list of all tool modules that are compiled
// into the toolpipe binary. Each one must have a matching manifest under
// manifests/ or boot validation fails.
var coreModules = []registry.Module{
	&delay.Module{},
	&echo.Module{},
	&env_vars.Module{},
	&http_request.Module{},
	&print.Module{},
	&s3_upload.Module{},
	&set_variable.Module{},
	&socketio.Module{},
}
