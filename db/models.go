package db

import (
	"time"

	"gorm.io/gorm"
)

// RecentProject is a project directory that was opened successfully.
type RecentProject struct {
	gorm.Model
	Path      string `gorm:"uniqueIndex"`
	Name      string
	Minecraft string
	Loader    string
	OpenedAt  time.Time `gorm:"index"`
}

// ModVersion is a version of a mod that was replaced by an update or a version change.
type ModVersion struct {
	gorm.Model
	ProjectPath string `gorm:"index:idx_project_mod"`
	ModID       string `gorm:"index:idx_project_mod"`
	Version     string
	URL         string
	Filename    string
	Source      string
}
