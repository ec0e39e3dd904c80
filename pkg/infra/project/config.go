package project

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/shipper/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
)

// ConfigFile is the name of the optional project file in the project directory
const ConfigFile = ".shipper.toml"

// LoadConfig reads the project file of dir. A missing file yields an empty config.
func LoadConfig(dir string) (model.ProjectConfig, error) {
	var cfg model.ProjectConfig

	path := filepath.Join(dir, ConfigFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		if notExist(err) {
			return cfg, nil
		}
		return cfg, goerr.Wrap(err, "failed to read project file", goerr.V("path", path))
	}

	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return cfg, goerr.Wrap(err, "failed to parse project file", goerr.V("path", path))
	}
	return cfg, nil
}
