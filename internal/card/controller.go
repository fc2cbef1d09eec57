package card

import "github.com/google/uuid"

// View is a read-only snapshot of the controller state handed to scene views.
type View struct {
	Scene     Scene
	Celebrant Celebrant
	Muted     bool
	SessionID string
}

// MuteToggleVisible reports whether the mute control is shown. It appears once
// a celebrant has been chosen.
func (v View) MuteToggleVisible() bool {
	return v.Celebrant != ""
}

// Controller owns the scene and the chosen celebrant. Views never mutate it
// directly; they go through Session, which calls these methods.
type Controller struct {
	scene        Scene
	celebrant    Celebrant
	muted        bool
	initialMuted bool
	sessionID    string

	// OnSceneChange fires after every transition, including Restart.
	OnSceneChange func(from, to Scene)
}

// NewController returns a controller at the MAIL scene.
func NewController(muted bool) *Controller {
	return &Controller{
		muted:        muted,
		initialMuted: muted,
		sessionID:    uuid.NewString(),
	}
}

// Advance moves to the next scene. It is a no-op at BLESSINGS.
func (c *Controller) Advance() bool {
	next, ok := c.scene.Next()
	if !ok {
		return false
	}
	c.setScene(next)
	return true
}

// SelectCelebrant records the celebrant and moves on to CAKE. Calls outside
// SELECTION or with a name outside the closed set are ignored.
func (c *Controller) SelectCelebrant(name Celebrant) bool {
	if c.scene != SceneSelection {
		return false
	}
	if _, ok := ParseCelebrant(string(name)); !ok {
		return false
	}
	c.celebrant = name
	c.setScene(SceneCake)
	return true
}

// ToggleMute flips the global mute flag and returns the new value.
func (c *Controller) ToggleMute() bool {
	c.muted = !c.muted
	return c.muted
}

// Restart returns every field to the values of a fresh load and issues a new
// session ID.
func (c *Controller) Restart() {
	from := c.scene
	c.scene = SceneMail
	c.celebrant = ""
	c.muted = c.initialMuted
	c.sessionID = uuid.NewString()
	if c.OnSceneChange != nil {
		c.OnSceneChange(from, SceneMail)
	}
}

// View returns the current snapshot.
func (c *Controller) View() View {
	return View{
		Scene:     c.scene,
		Celebrant: c.celebrant,
		Muted:     c.muted,
		SessionID: c.sessionID,
	}
}

// Scene returns the current scene.
func (c *Controller) Scene() Scene { return c.scene }

// Celebrant returns the chosen celebrant, or "" before selection.
func (c *Controller) Celebrant() Celebrant { return c.celebrant }

// Muted returns the global mute flag.
func (c *Controller) Muted() bool { return c.muted }

func (c *Controller) setScene(to Scene) {
	from := c.scene
	c.scene = to
	if c.OnSceneChange != nil {
		c.OnSceneChange(from, to)
	}
}
