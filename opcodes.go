// go-cec
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-cec.
//
// go-cec is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-cec is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-cec; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package cec

// Opcode is the first payload byte of a frame.
type Opcode byte

// Opcodes handled by the dispatcher and the command bridge.
const (
	OpFeatureAbort           Opcode = 0x00
	OpImageViewOn            Opcode = 0x04
	OpTextViewOn             Opcode = 0x0D
	OpStandby                Opcode = 0x36
	OpUserControlPressed     Opcode = 0x44
	OpUserControlReleased    Opcode = 0x45
	OpGiveOSDName            Opcode = 0x46
	OpSetOSDName             Opcode = 0x47
	OpSystemAudioModeRequest Opcode = 0x70
	OpGiveAudioStatus        Opcode = 0x71
	OpSetSystemAudioMode     Opcode = 0x72
	OpReportAudioStatus      Opcode = 0x7A
	OpActiveSource           Opcode = 0x82
	OpGivePhysicalAddress    Opcode = 0x83
	OpReportPhysicalAddress  Opcode = 0x84
	OpRequestActiveSource    Opcode = 0x85
	OpSetStreamPath          Opcode = 0x86
	OpDeviceVendorID         Opcode = 0x87
	OpGiveDeviceVendorID     Opcode = 0x8C
	OpMenuRequest            Opcode = 0x8D
	OpMenuStatus             Opcode = 0x8E
	OpGiveDevicePowerStatus  Opcode = 0x8F
	OpReportPowerStatus      Opcode = 0x90
	OpInactiveSource         Opcode = 0x9D
	OpCECVersion             Opcode = 0x9E
	OpGetCECVersion          Opcode = 0x9F
	OpAbort                  Opcode = 0xFF
)

// Feature abort reasons.
const (
	AbortUnrecognizedOpcode byte = 0x00
	AbortNotInCorrectMode   byte = 0x01
	AbortCannotProvide      byte = 0x02
	AbortInvalidOperand     byte = 0x03
	AbortRefused            byte = 0x04
)

// Power status operands of OpReportPowerStatus.
const (
	PowerStatusOn                byte = 0x00
	PowerStatusStandby           byte = 0x01
	PowerStatusTransitionOn      byte = 0x02
	PowerStatusTransitionStandby byte = 0x03
)

// CECVersion14 is reported in reply to OpGetCECVersion.
const CECVersion14 byte = 0x05

var opcodeNames = map[Opcode]string{
	OpFeatureAbort:           "feature abort",
	OpImageViewOn:            "image view on",
	OpTextViewOn:             "text view on",
	OpStandby:                "standby",
	OpUserControlPressed:     "user control pressed",
	OpUserControlReleased:    "user control released",
	OpGiveOSDName:            "give osd name",
	OpSetOSDName:             "set osd name",
	OpSystemAudioModeRequest: "system audio mode request",
	OpGiveAudioStatus:        "give audio status",
	OpSetSystemAudioMode:     "set system audio mode",
	OpReportAudioStatus:      "report audio status",
	OpActiveSource:           "active source",
	OpGivePhysicalAddress:    "give physical address",
	OpReportPhysicalAddress:  "report physical address",
	OpRequestActiveSource:    "request active source",
	OpSetStreamPath:          "set stream path",
	OpDeviceVendorID:         "device vendor id",
	OpGiveDeviceVendorID:     "give device vendor id",
	OpMenuRequest:            "menu request",
	OpMenuStatus:             "menu status",
	OpGiveDevicePowerStatus:  "give device power status",
	OpReportPowerStatus:      "report power status",
	OpInactiveSource:         "inactive source",
	OpCECVersion:             "cec version",
	OpGetCECVersion:          "get cec version",
	OpAbort:                  "abort",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return "unknown"
}
