package db

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNoHistory is returned when a mod has no recorded previous version.
var ErrNoHistory = errors.New("no previous versions recorded")

// RecordRecent marks the project at path as opened now, creating the row on first use.
func RecordRecent(conn *gorm.DB, path, name, minecraft, loader string) error {
	var project RecentProject
	err := conn.Where("path = ?", path).First(&project).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	project.Path = path
	project.Name = name
	project.Minecraft = minecraft
	project.Loader = loader
	project.OpenedAt = time.Now()
	return conn.Save(&project).Error
}

// ListRecent returns up to limit projects, most recently opened first.
func ListRecent(conn *gorm.DB, limit int) ([]RecentProject, error) {
	var projects []RecentProject
	err := conn.Order("opened_at DESC").Limit(limit).Find(&projects).Error
	return projects, err
}

func RecordVersion(conn *gorm.DB, version *ModVersion) error {
	return conn.Create(version).Error
}

// History returns the replaced versions of a mod, newest first.
func History(conn *gorm.DB, projectPath, modID string) ([]ModVersion, error) {
	var versions []ModVersion
	err := conn.Where("project_path = ? AND mod_id = ?", projectPath, modID).
		Order("id DESC").
		Find(&versions).Error
	return versions, err
}

// Latest returns the most recently replaced version of a mod, or ErrNoHistory.
func Latest(conn *gorm.DB, projectPath, modID string) (*ModVersion, error) {
	var version ModVersion
	err := conn.Where("project_path = ? AND mod_id = ?", projectPath, modID).
		Order("id DESC").
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoHistory
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// DeleteVersion removes a history entry once it has been restored.
func DeleteVersion(conn *gorm.DB, version *ModVersion) error {
	return conn.Delete(version).Error
}
