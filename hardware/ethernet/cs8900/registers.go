// This file is part of c64io.
//
// c64io is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// c64io is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with c64io.  If not, see <https://www.gnu.org/licenses/>.

package cs8900

// I/O port addresses. Each port is 16 bits wide. The even address is the low
// byte and the odd address is the high byte.
const (
	PortRxTxData  = 0x00
	PortRxTxData2 = 0x02
	PortTxCmd     = 0x04
	PortTxLength  = 0x06
	PortISQ       = 0x08
	PortPPPtr     = 0x0a
	PortPPData    = 0x0c
	PortPPData2   = 0x0e
)

// PacketPage addresses.
const (
	PPProductID   = 0x0000
	PPIOBase      = 0x0020
	PPIntNo       = 0x0022
	PPDMAChan     = 0x0024
	PPRxCfg       = 0x0102
	PPRxCtl       = 0x0104
	PPTxCfg       = 0x0106
	PPCCTxCmd     = 0x0108
	PPBufCfg      = 0x010a
	PPLineCtl     = 0x0112
	PPSelfCtl     = 0x0114
	PPBusCtl      = 0x0116
	PPTestCtl     = 0x0118
	PPISQ         = 0x0120
	PPRxEvent     = 0x0124
	PPTxEvent     = 0x0128
	PPBufEvent    = 0x012c
	PPRxMiss      = 0x0130
	PPTxCol       = 0x0132
	PPLineSt      = 0x0134
	PPSelfSt      = 0x0136
	PPBusSt       = 0x0138
	PPTDR         = 0x013c
	PPTxCmd       = 0x0144
	PPTxLength    = 0x0146
	PPAddrFilter  = 0x0150
	PPMAC         = 0x0158
	PPRxStatus    = 0x0400
	PPRxLength    = 0x0402
	PPRxFrame     = 0x0404
	PPTxFrame     = 0x0a00
)

// PacketPage pointer bits.
const (
	ppPtrAutoIncr = 0x8000
	ppPtrFlagMask = 0xf000
	ppPtrAddrMask = 0x0fff

	// these bits always read as set
	ppPtrFixed = 0x3000
)

// value returned by reads of reserved registers.
const reserved = 0x0300

// frame length limits.
const (
	MaxTxLength = 1518
	MinTxLength = 4
	MaxRxLength = 1518
	MinRxLength = 64
)

// BusST bits.
const (
	busStRdy4TxNow = 0x0100
	busStTxBidErr  = 0x0080
)

// TxCMD bits.
const (
	txCmdForce      = 0x0100
	txCmdOneColl    = 0x0200
	txCmdInhibitCRC = 0x1000
	txCmdTxPadDis   = 0x2000
)

// RxCTL bits.
const (
	rxCtlIAHash      = 0x0040
	rxCtlPromiscuous = 0x0080
	rxCtlCorrect     = 0x0100
	rxCtlMulticast   = 0x0200
	rxCtlIA          = 0x0400
	rxCtlBroadcast   = 0x0800
)

// RxEvent/RxStatus bits.
const (
	rxEventBase      = 0x0004
	rxEventHashed    = 0x0040
	rxEventRxOK      = 0x0100
	rxEventHashIndex = 9
	rxEventMulticast = 0x0200
	rxEventIA        = 0x0400
	rxEventBroadcast = 0x0800
	rxEventCRCError  = 0x1000
	rxEventRunt      = 0x2000
	rxEventExtra     = 0x4000
)

// LineCTL bits.
const (
	lineCtlSerRxOn = 0x0040
	lineCtlSerTxOn = 0x0080
)

// RxCFG and SelfCTL bits.
const (
	rxCfgSkip1    = 0x0040
	selfCtlReset  = 0x0040
	lineStLinkOK  = 0x0080
	txCmdRegister = 0x0009
)
