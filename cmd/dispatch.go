package cmd

import (
	"errors"
	"strconv"
	"strings"

	"metzctl/internal/metz"
)

var actionFlagNames = []string{
	"key", "vup", "vdown", "chup", "chdown", "mute", "unmute", "ok", "power", "power-on", "channel",
}

// Commander is the part of metz.Client the dispatcher drives
type Commander interface {
	SendKeys(codes ...metz.KeyCode) error
	VolumeUp() error
	VolumeDown() error
	Mute() error
	Unmute() error
	ChannelUp() error
	ChannelDown() error
	Power() error
	OK() error
	Channel(number int) error
	PowerOn() error
	Host() string
}

type actionFlags struct {
	keys        []int
	volumeUp    bool
	volumeDown  bool
	channelUp   bool
	channelDown bool
	mute        bool
	unmute      bool
	ok          bool
	power       bool
	powerOn     bool
	channel     int
	channelSet  bool
}

type remoteAction struct {
	name string
	run  func(Commander) error
}

// selectAction picks the requested action. The flags are mutually exclusive, the order
// only matters when the struct is filled without cobra.
func (f actionFlags) selectAction() (remoteAction, bool) {
	switch {
	case len(f.keys) > 0:
		codes := make([]metz.KeyCode, len(f.keys))
		names := make([]string, len(f.keys))
		for i, k := range f.keys {
			codes[i] = metz.KeyCode(k)
			names[i] = strconv.Itoa(k)
		}
		return remoteAction{"key " + strings.Join(names, ","), func(c Commander) error { return c.SendKeys(codes...) }}, true
	case f.volumeUp:
		return remoteAction{"volume up", Commander.VolumeUp}, true
	case f.volumeDown:
		return remoteAction{"volume down", Commander.VolumeDown}, true
	case f.mute:
		return remoteAction{"mute", Commander.Mute}, true
	case f.unmute:
		return remoteAction{"unmute", Commander.Unmute}, true
	case f.channelUp:
		return remoteAction{"channel up", Commander.ChannelUp}, true
	case f.channelDown:
		return remoteAction{"channel down", Commander.ChannelDown}, true
	case f.ok:
		return remoteAction{"ok", Commander.OK}, true
	case f.power:
		return remoteAction{"power", Commander.Power}, true
	case f.powerOn:
		return remoteAction{"power on", Commander.PowerOn}, true
	case f.channelSet:
		n := f.channel
		return remoteAction{"channel " + strconv.Itoa(n), func(c Commander) error { return c.Channel(n) }}, true
	default:
		return remoteAction{}, false
	}
}

// runAction executes the action and logs the outcome by failure kind
func runAction(c Commander, action remoteAction) error {
	log.Debug().
		Str("host", c.Host()).
		Str("action", action.name).
		Msg("Sending remote command")

	err := action.run(c)
	switch {
	case err == nil:
		log.Info().Str("action", action.name).Msg("Remote command sent")
	case errors.Is(err, metz.ErrRemoteCommand):
		log.Error().Err(err).Str("host", c.Host()).Msg("Error: Remote command failed")
	case errors.Is(err, metz.ErrMacResolution):
		log.Error().Err(err).Str("host", c.Host()).Msg("Error: MAC address of the TV could not be resolved")
	default:
		log.Error().Err(err).Str("action", action.name).Msg("Error: command failed")
	}
	return err
}
