package opts

import (
	"github.com/spf13/afero"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/text"
)

// SkipConfigAnnotation marks commands that run without a loaded config
const SkipConfigAnnotation = "rewriterc/skip-config"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config *config.Config
	Chain  *text.Chain
	Fs     afero.Fs
}
