package engine

import (
	"errors"

	"github.com/kkyr/fig"
)

const EnvPrefix = "GLINT"

// Config holds window and context settings. Values come from a yaml file
// and can be overridden by environment variables with the GLINT_ prefix.
type Config struct {
	Title  string `fig:"title" default:"glint"`
	Width  int32  `fig:"width" default:"1280"`
	Height int32  `fig:"height" default:"720"`
	VSync  bool   `fig:"vsync" default:"true"`
	MSAA   int    `fig:"msaa" default:"4"`

	// Renderer picks the backend. Only "OpenGL" is implemented.
	Renderer string `fig:"renderer" default:"OpenGL"`
}

// LoadConfig reads glint.yaml from the given directory. With an empty path
// the file is skipped and defaults plus environment variables apply.
func LoadConfig(path string) (Config, error) {

	var cfg Config

	var err error
	if path == "" {
		err = fig.Load(&cfg, fig.IgnoreFile(), fig.UseEnv(EnvPrefix))
	} else {
		err = fig.Load(&cfg, fig.File("glint.yaml"), fig.Dirs(path), fig.UseEnv(EnvPrefix))
	}

	if err != nil {
		return Config{}, err
	}

	if cfg.Renderer != "OpenGL" {
		return Config{}, errors.New("engine: unsupported renderer: " + cfg.Renderer)
	}

	return cfg, nil
}
