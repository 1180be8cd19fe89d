package plugin

import "fmt"

// Trigger names a host UI event that starts a rewrite.
type Trigger string

// Triggers exposed to the host. All of them run the same rewrite.
const (
	TriggerCommand  Trigger = "command"
	TriggerRibbon   Trigger = "ribbon"
	TriggerFileMenu Trigger = "file-menu"
)

// AllTriggers lists every trigger in registration order.
func AllTriggers() []Trigger {
	return []Trigger{TriggerCommand, TriggerRibbon, TriggerFileMenu}
}

// ParseTrigger converts a trigger name, returning ErrUnknownTrigger for
// anything else.
func ParseTrigger(name string) (Trigger, error) {
	for _, t := range AllTriggers() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTrigger, name)
}

// Platform is the kind of device the host runs on.
type Platform string

const (
	PlatformDesktop Platform = "desktop"
	PlatformMobile  Platform = "mobile"
)

// Host-facing labels shared by every registration.
const (
	CommandID    = "ersatt-typografiska tecken"
	CommandTitle = "Ersätt typografiska tecken"
	Icon         = "quote-glyph"
)

// NoChangesNotice is shown when a document needed no substitutions.
const NoChangesNotice = "Inga ersättningar behövdes."

// Registration describes a trigger as the host presents it.
type Registration struct {
	Trigger Trigger
	ID      string
	Title   string
	Icon    string
}

// registrationsFor returns the triggers available on platform. The ribbon
// icon exists only on desktop.
func registrationsFor(platform Platform) []Registration {
	var regs []Registration
	for _, t := range AllTriggers() {
		if t == TriggerRibbon && platform == PlatformMobile {
			continue
		}
		reg := Registration{Trigger: t, Title: CommandTitle, Icon: Icon}
		if t == TriggerCommand {
			reg.ID = CommandID
		}
		regs = append(regs, reg)
	}
	return regs
}
