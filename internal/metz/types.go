// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metz

import "net"

// KeyCode is a vendor key code understood by the RCRService
type KeyCode int

// SendKeyRequest is the argument set of a single SendKeyCode call.
// DestinationDevice and ButtonHold are always zero.
type SendKeyRequest struct {
	KeyCode           KeyCode
	DestinationDevice int
	ButtonHold        int
}

// MACResolver maps an IP address to the hardware address of the host that owns it
type MACResolver interface {
	Resolve(ip string) (net.HardwareAddr, error)
}

// Waker transmits a Wake-on-LAN packet for a hardware address
type Waker interface {
	Wake(mac net.HardwareAddr) error
}

// MACResolverFunc adapts a function to MACResolver
type MACResolverFunc func(ip string) (net.HardwareAddr, error)

func (f MACResolverFunc) Resolve(ip string) (net.HardwareAddr, error) {
	return f(ip)
}

// WakerFunc adapts a function to Waker
type WakerFunc func(mac net.HardwareAddr) error

func (f WakerFunc) Wake(mac net.HardwareAddr) error {
	return f(mac)
}
