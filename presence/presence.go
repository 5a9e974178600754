// Package presence shows the open modpack as Discord Rich Presence.
package presence

import (
	"fmt"
	"sync"
	"time"

	"packsmith/logger"

	"github.com/hugolgst/rich-go/client"
	"go.uber.org/zap"
)

const (
	details    = "Smithing mod packs"
	largeImage = "https://i.imgur.com/EhxmU2E.png"
)

var loaderIcons = map[string]string{
	"forge":  "https://i.imgur.com/O9acTGw.png",
	"fabric": "https://i.imgur.com/lLTttOy.png",
}

// Discord publishes activity to the local Discord client over its IPC socket.
type Discord struct {
	appID string

	// replaced in tests
	login       func(appID string) error
	setActivity func(client.Activity) error
	logout      func()

	mu        sync.Mutex
	connected bool
	started   time.Time
}

func NewDiscord(appID string) *Discord {
	return &Discord{
		appID:       appID,
		login:       client.Login,
		setActivity: client.SetActivity,
		logout:      client.Logout,
	}
}

// Start connects to Discord and shows the idle activity. An error means Discord is not
// running; later updates are then dropped.
func (d *Discord) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.login(d.appID); err != nil {
		return fmt.Errorf("discord login: %w", err)
	}
	d.connected = true
	d.started = time.Now()

	if err := d.setActivity(idleActivity(d.started)); err != nil {
		logger.Log.Warnw("Discord RPC initialization error", zap.Error(err))
	}
	return nil
}

// ProjectOpened shows the opened modpack with its loader icon.
func (d *Discord) ProjectOpened(name, minecraft, loader string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return
	}
	if err := d.setActivity(projectActivity(d.started, name, minecraft, loader)); err != nil {
		logger.Log.Warnw("Discord RPC update error", zap.String("project", name), zap.Error(err))
	}
}

func (d *Discord) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		d.logout()
		d.connected = false
	}
}

func idleActivity(start time.Time) client.Activity {
	return client.Activity{
		State:      "Choosing a modpack",
		Details:    details,
		LargeImage: largeImage,
		Timestamps: &client.Timestamps{Start: &start},
	}
}

func projectActivity(start time.Time, name, minecraft, loader string) client.Activity {
	return client.Activity{
		State:      fmt.Sprintf("Modpack: %s %s", name, minecraft),
		Details:    details,
		LargeImage: largeImage,
		SmallImage: loaderIcons[loader],
		SmallText:  loader,
		Timestamps: &client.Timestamps{Start: &start},
	}
}
