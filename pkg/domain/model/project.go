package model

// ChangelogPending is the date of a changelog that is not released yet
const ChangelogPending = "Pending"

// Changelog is the content of a changelog file
type Changelog struct {
	Date    string   `yaml:"date" json:"date"`
	Changes []Change `yaml:"changes,omitempty" json:"changes,omitempty"`
}

// IsPending reports whether the changelog belongs to an unreleased version
func (c *Changelog) IsPending() bool {
	return c.Date == ChangelogPending
}

// Change is a single changelog entry
type Change struct {
	Area   string `yaml:"area" json:"area"`
	Change string `yaml:"change" json:"change"`
}

// ProjectConfig is the optional project file (.shipper.toml)
type ProjectConfig struct {
	Repo           string    `toml:"repo"`
	VersionFile    string    `toml:"version_file"`
	ChangelogDir   string    `toml:"changelog_dir"`
	InventoryDir   string    `toml:"inventory_dir"`
	InventoryAsset string    `toml:"inventory_asset"`
	Git            GitConfig `toml:"git"`
}

// GitConfig holds the commit author. Empty values fall back to git config.
type GitConfig struct {
	AuthorName  string `toml:"author_name"`
	AuthorEmail string `toml:"author_email"`
}

// ProjectData is the JSON summary printed by the data command
type ProjectData struct {
	Version     string               `json:"version"`
	IsDev       bool                 `json:"is_dev"`
	Current     *Changelog           `json:"current_changelog,omitempty"`
	Changelogs  map[string]Changelog `json:"changelogs"`
	Inventories map[string]string    `json:"inventories"`
}
