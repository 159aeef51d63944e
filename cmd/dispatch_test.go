package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"metzctl/internal/config"
	"metzctl/internal/logger"
	"metzctl/internal/metz"
)

type fakeCommander struct {
	calls []string
	codes []metz.KeyCode
	err   error
}

func (f *fakeCommander) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeCommander) SendKeys(codes ...metz.KeyCode) error {
	f.codes = append(f.codes, codes...)
	return f.record("keys")
}
func (f *fakeCommander) VolumeUp() error    { return f.record("volume_up") }
func (f *fakeCommander) VolumeDown() error  { return f.record("volume_down") }
func (f *fakeCommander) Mute() error        { return f.record("mute") }
func (f *fakeCommander) Unmute() error      { return f.record("unmute") }
func (f *fakeCommander) ChannelUp() error   { return f.record("channel_up") }
func (f *fakeCommander) ChannelDown() error { return f.record("channel_down") }
func (f *fakeCommander) Power() error       { return f.record("power") }
func (f *fakeCommander) OK() error          { return f.record("ok") }
func (f *fakeCommander) PowerOn() error     { return f.record("power_on") }
func (f *fakeCommander) Host() string       { return "192.168.1.46" }
func (f *fakeCommander) Channel(number int) error {
	f.codes = append(f.codes, metz.KeyCode(number))
	return f.record("channel")
}

var _ Commander = (*metz.Client)(nil)

func TestSelectAction(t *testing.T) {
	tests := []struct {
		name  string
		flags actionFlags
		call  string
		codes []metz.KeyCode
	}{
		{"vup", actionFlags{volumeUp: true}, "volume_up", nil},
		{"vdown", actionFlags{volumeDown: true}, "volume_down", nil},
		{"chup", actionFlags{channelUp: true}, "channel_up", nil},
		{"chdown", actionFlags{channelDown: true}, "channel_down", nil},
		{"mute", actionFlags{mute: true}, "mute", nil},
		{"unmute", actionFlags{unmute: true}, "unmute", nil},
		{"ok", actionFlags{ok: true}, "ok", nil},
		{"power", actionFlags{power: true}, "power", nil},
		{"power-on", actionFlags{powerOn: true}, "power_on", nil},
		{"channel", actionFlags{channel: 105, channelSet: true}, "channel", []metz.KeyCode{105}},
		{"channel zero", actionFlags{channelSet: true}, "channel", []metz.KeyCode{0}},
		{"keys", actionFlags{keys: []int{28, 39}}, "keys", []metz.KeyCode{28, 39}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, ok := tt.flags.selectAction()
			require.True(t, ok)

			c := &fakeCommander{}
			require.NoError(t, action.run(c))
			assert.Equal(t, []string{tt.call}, c.calls)
			assert.Equal(t, tt.codes, c.codes)
		})
	}
}

func TestSelectActionNone(t *testing.T) {
	_, ok := actionFlags{channel: 5}.selectAction()
	assert.False(t, ok, "a channel value without the flag being set is not an action")
}

func TestRunActionReturnsClassifiedErrors(t *testing.T) {
	action, ok := actionFlags{mute: true}.selectAction()
	require.True(t, ok)

	remoteErr := &metz.CommandError{Kind: metz.ErrRemoteCommand, Host: "192.168.1.46", Code: metz.KeyMute, Err: errors.New("connection refused")}
	err := runAction(&fakeCommander{err: remoteErr}, action)
	assert.ErrorIs(t, err, metz.ErrRemoteCommand)
	assert.Equal(t, 2, metz.ExitCode(err))

	action, _ = actionFlags{powerOn: true}.selectAction()
	macErr := &metz.CommandError{Kind: metz.ErrMacResolution, Host: "192.168.1.46", Err: errors.New("not in ARP table")}
	err = runAction(&fakeCommander{err: macErr}, action)
	assert.ErrorIs(t, err, metz.ErrMacResolution)
	assert.Equal(t, 3, metz.ExitCode(err))

	assert.NoError(t, runAction(&fakeCommander{}, action))
}

func TestRootWithoutActionWarns(t *testing.T) {
	saved := flags
	flags = actionFlags{}

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	log = logger.New()
	t.Cleanup(func() {
		flags = saved
		logger.SetSilentMode(true)
		log = logger.New()
	})

	require.NoError(t, rootCmd.RunE(rootCmd, nil))
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "Unsupported option")
}

func TestTargetDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	manager := config.NewManager(path)
	_, err := manager.AddDevice(config.DeviceConfig{ID: "living_room", Address: "192.168.1.46", MAC: "00:09:2f:aa:bb:cc"})
	require.NoError(t, err)

	setTarget := func(ip, tv, mac string) {
		targetIP, targetTV, targetMAC, configPath = ip, tv, mac, path
	}
	t.Cleanup(func() { setTarget("", "", "") })

	setTarget("", "living_room", "")
	dev, err := targetDevice()
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.46", dev.Address)
	assert.Equal(t, "00:09:2f:aa:bb:cc", dev.MAC)

	setTarget("192.168.1.50", "living_room", "00:09:2f:00:00:01")
	dev, err = targetDevice()
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.50", dev.Address, "--ip overrides the config file")
	assert.Equal(t, "00:09:2f:00:00:01", dev.MAC)

	setTarget("10.0.0.7", "", "")
	dev, err = targetDevice()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", dev.ID)

	setTarget("", "", "")
	_, err = targetDevice()
	assert.Error(t, err)

	setTarget("", "kitchen", "")
	_, err = targetDevice()
	assert.Error(t, err)
}
