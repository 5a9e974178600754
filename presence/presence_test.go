package presence

import (
	"errors"
	"testing"

	"github.com/hugolgst/rich-go/client"
)

type fakeDiscord struct {
	loginErr   error
	activities []client.Activity
	logouts    int
}

func (f *fakeDiscord) attach(d *Discord) *Discord {
	d.login = func(string) error { return f.loginErr }
	d.setActivity = func(a client.Activity) error {
		f.activities = append(f.activities, a)
		return nil
	}
	d.logout = func() { f.logouts++ }
	return d
}

func TestDiscordShowsOpenedProject(t *testing.T) {
	tests := []struct {
		loader    string
		wantImage string
	}{
		{"forge", "https://i.imgur.com/O9acTGw.png"},
		{"fabric", "https://i.imgur.com/lLTttOy.png"},
		{"quilt", ""},
	}
	for _, tt := range tests {
		t.Run(tt.loader, func(t *testing.T) {
			f := &fakeDiscord{}
			d := f.attach(NewDiscord("app"))
			if err := d.Start(); err != nil {
				t.Fatal(err)
			}
			d.ProjectOpened("Pack", "1.20.1", tt.loader)

			if len(f.activities) != 2 {
				t.Fatalf("got %d activities, want 2", len(f.activities))
			}
			if f.activities[0].State != "Choosing a modpack" {
				t.Errorf("idle state = %q", f.activities[0].State)
			}
			got := f.activities[1]
			if got.State != "Modpack: Pack 1.20.1" {
				t.Errorf("State = %q", got.State)
			}
			if got.SmallImage != tt.wantImage {
				t.Errorf("SmallImage = %q, want %q", got.SmallImage, tt.wantImage)
			}
			if got.Timestamps == nil || !got.Timestamps.Start.Equal(*f.activities[0].Timestamps.Start) {
				t.Error("the start time should be kept across updates")
			}
		})
	}
}

func TestDiscordWithoutClient(t *testing.T) {
	f := &fakeDiscord{loginErr: errors.New("no discord ipc")}
	d := f.attach(NewDiscord("app"))

	if err := d.Start(); err == nil {
		t.Fatal("Start() should fail when Discord is not running")
	}
	d.ProjectOpened("Pack", "1.20.1", "forge")
	d.Close()

	if len(f.activities) != 0 {
		t.Errorf("got %d activities without a connection", len(f.activities))
	}
	if f.logouts != 0 {
		t.Error("Close() should not log out without a connection")
	}
}

func TestDiscordClose(t *testing.T) {
	f := &fakeDiscord{}
	d := f.attach(NewDiscord("app"))
	if err := d.Start(); err != nil {
		t.Fatal(err)
	}
	d.Close()
	d.Close()
	d.ProjectOpened("Pack", "1.20.1", "forge")

	if f.logouts != 1 {
		t.Errorf("logouts = %d, want 1", f.logouts)
	}
	if len(f.activities) != 1 {
		t.Errorf("got %d activities, want only the idle one", len(f.activities))
	}
}
