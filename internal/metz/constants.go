package metz

// Service location. The port is fixed on all known firmware, so no SSDP lookup is done.
const (
	ServicePort = 49200
	ServicePath = "/services/rcr/control/RCRService"
	SOAPAction  = "urn:metz.de:service:RCRService:1#SendKeyCode"
	ContentType = `text/xml; charset="utf-8"`
)

// Key codes for the RCRService
const (
	KeyPower      KeyCode = 11
	KeyVolumeDown KeyCode = 27
	KeyVolumeUp   KeyCode = 28
	KeyMute       KeyCode = 35
	KeyOK         KeyCode = 39
	KeyChannelUp  KeyCode = 47
	// KeyChannelDown shares its code with KeyChannelUp. This is what the sets were
	// observed to accept; do not change it without a confirmed code for channel down.
	KeyChannelDown KeyCode = 47
)

// sendKeyTemplate is the SendKeyCode envelope. The only substitution is the decimal key code.
const sendKeyTemplate = `<?xml version="1.0" encoding="utf-8"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">
  <s:Body>
    <u:SendKeyCode xmlns:u="urn:metz.de:service:RCRService:1">
      <KeyCode>%d</KeyCode>
      <DestinationDevice>%d</DestinationDevice>
      <ButtonHold>%d</ButtonHold>
    </u:SendKeyCode>
  </s:Body>
</s:Envelope>`

// KeyNames maps the symbolic command names used by the CLI, the bridges and the
// interactive remote to their key codes.
var KeyNames = map[string]KeyCode{
	"power":        KeyPower,
	"volume_up":    KeyVolumeUp,
	"volume_down":  KeyVolumeDown,
	"mute":         KeyMute,
	"unmute":       KeyMute,
	"channel_up":   KeyChannelUp,
	"channel_down": KeyChannelDown,
	"ok":           KeyOK,
}

// LookupKey returns the key code registered for name
func LookupKey(name string) (KeyCode, bool) {
	code, ok := KeyNames[name]
	return code, ok
}
