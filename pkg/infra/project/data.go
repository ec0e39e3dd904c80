package project

import (
	"context"

	"github.com/m-mizutani/shipper/pkg/domain/model"
)

// Data returns a summary of the project metadata
func (p *Project) Data(ctx context.Context) (*model.ProjectData, error) {
	current, err := p.readVersion()
	if err != nil {
		return nil, err
	}

	data := &model.ProjectData{
		Version:    current.String(),
		IsDev:      isDev(current),
		Changelogs: map[string]model.Changelog{},
	}

	if data.Current, err = p.readChangelog(currentChangelog); err != nil {
		return nil, err
	}

	versions, err := p.changelogVersions()
	if err != nil {
		return nil, err
	}
	for _, v := range versions {
		changelog, err := p.readChangelog(versionChangelog(v))
		if err != nil {
			return nil, err
		}
		if changelog != nil {
			data.Changelogs[v.String()] = *changelog
		}
	}

	if data.Inventories, err = p.readInventoryIndex(); err != nil {
		return nil, err
	}
	return data, nil
}
