package cpu

// opcodeEntry describes one slot of the dense dispatch table: the
// mnemonic (used for tracing and the SET/T-flag lifetime rule), the
// addressing mode passed to the handler, and the handler itself.
type opcodeEntry struct {
	name string
	mode addrMode
	exec func(*CPU, addrMode) int
}

var opcodeTable = [256]opcodeEntry{
	0x00: {"BRK", modeImplied, opBRK},
	0x01: {"ORA", modeIndexedIndirect, opORA},
	0x02: {"SXY", modeImplied, opSXY},
	0x03: {"ST0", modeImmediate, opST(0)},
	0x04: {"TSB", modeZeroPage, opTSB},
	0x05: {"ORA", modeZeroPage, opORA},
	0x06: {"ASL", modeZeroPage, opASL},
	0x07: {"RMB0", modeZeroPage, opRMB(0)},
	0x08: {"PHP", modeImplied, opPHP},
	0x09: {"ORA", modeImmediate, opORA},
	0x0A: {"ASL", modeAccumulator, opASL},
	0x0B: {"???", modeImplied, opUndefined},
	0x0C: {"TSB", modeAbsolute, opTSB},
	0x0D: {"ORA", modeAbsolute, opORA},
	0x0E: {"ASL", modeAbsolute, opASL},
	0x0F: {"BBR0", modeRelative, opBBR(0)},

	0x10: {"BPL", modeRelative, opBPL},
	0x11: {"ORA", modeIndirectIndexed, opORA},
	0x12: {"ORA", modeZeroPageIndirect, opORA},
	0x13: {"ST1", modeImmediate, opST(2)},
	0x14: {"TRB", modeZeroPage, opTRB},
	0x15: {"ORA", modeZeroPageX, opORA},
	0x16: {"ASL", modeZeroPageX, opASL},
	0x17: {"RMB1", modeZeroPage, opRMB(1)},
	0x18: {"CLC", modeImplied, opCLC},
	0x19: {"ORA", modeAbsoluteY, opORA},
	0x1A: {"INC", modeAccumulator, opINC},
	0x1B: {"???", modeImplied, opUndefined},
	0x1C: {"TRB", modeAbsolute, opTRB},
	0x1D: {"ORA", modeAbsoluteX, opORA},
	0x1E: {"ASL", modeAbsoluteX, opASL},
	0x1F: {"BBR1", modeRelative, opBBR(1)},

	0x20: {"JSR", modeAbsolute, opJSR},
	0x21: {"AND", modeIndexedIndirect, opAND},
	0x22: {"SAX", modeImplied, opSAX},
	0x23: {"ST2", modeImmediate, opST(3)},
	0x24: {"BIT", modeZeroPage, opBIT},
	0x25: {"AND", modeZeroPage, opAND},
	0x26: {"ROL", modeZeroPage, opROL},
	0x27: {"RMB2", modeZeroPage, opRMB(2)},
	0x28: {"PLP", modeImplied, opPLP},
	0x29: {"AND", modeImmediate, opAND},
	0x2A: {"ROL", modeAccumulator, opROL},
	0x2B: {"???", modeImplied, opUndefined},
	0x2C: {"BIT", modeAbsolute, opBIT},
	0x2D: {"AND", modeAbsolute, opAND},
	0x2E: {"ROL", modeAbsolute, opROL},
	0x2F: {"BBR2", modeRelative, opBBR(2)},

	0x30: {"BMI", modeRelative, opBMI},
	0x31: {"AND", modeIndirectIndexed, opAND},
	0x32: {"AND", modeZeroPageIndirect, opAND},
	0x33: {"???", modeImplied, opUndefined},
	0x34: {"BIT", modeZeroPageX, opBIT},
	0x35: {"AND", modeZeroPageX, opAND},
	0x36: {"ROL", modeZeroPageX, opROL},
	0x37: {"RMB3", modeZeroPage, opRMB(3)},
	0x38: {"SEC", modeImplied, opSEC},
	0x39: {"AND", modeAbsoluteY, opAND},
	0x3A: {"DEC", modeAccumulator, opDEC},
	0x3B: {"???", modeImplied, opUndefined},
	0x3C: {"BIT", modeAbsoluteX, opBIT},
	0x3D: {"AND", modeAbsoluteX, opAND},
	0x3E: {"ROL", modeAbsoluteX, opROL},
	0x3F: {"BBR3", modeRelative, opBBR(3)},

	0x40: {"RTI", modeImplied, opRTI},
	0x41: {"EOR", modeIndexedIndirect, opEOR},
	0x42: {"SAY", modeImplied, opSAY},
	0x43: {"TMA", modeImmediate, opTMA},
	0x44: {"BSR", modeRelative, opBSR},
	0x45: {"EOR", modeZeroPage, opEOR},
	0x46: {"LSR", modeZeroPage, opLSR},
	0x47: {"RMB4", modeZeroPage, opRMB(4)},
	0x48: {"PHA", modeImplied, opPHA},
	0x49: {"EOR", modeImmediate, opEOR},
	0x4A: {"LSR", modeAccumulator, opLSR},
	0x4B: {"???", modeImplied, opUndefined},
	0x4C: {"JMP", modeAbsolute, opJMP},
	0x4D: {"EOR", modeAbsolute, opEOR},
	0x4E: {"LSR", modeAbsolute, opLSR},
	0x4F: {"BBR4", modeRelative, opBBR(4)},

	0x50: {"BVC", modeRelative, opBVC},
	0x51: {"EOR", modeIndirectIndexed, opEOR},
	0x52: {"EOR", modeZeroPageIndirect, opEOR},
	0x53: {"TAM", modeImmediate, opTAM},
	0x54: {"CSL", modeImplied, opCSL},
	0x55: {"EOR", modeZeroPageX, opEOR},
	0x56: {"LSR", modeZeroPageX, opLSR},
	0x57: {"RMB5", modeZeroPage, opRMB(5)},
	0x58: {"CLI", modeImplied, opCLI},
	0x59: {"EOR", modeAbsoluteY, opEOR},
	0x5A: {"PHY", modeImplied, opPHY},
	0x5B: {"???", modeImplied, opUndefined},
	0x5C: {"???", modeImplied, opUndefined},
	0x5D: {"EOR", modeAbsoluteX, opEOR},
	0x5E: {"LSR", modeAbsoluteX, opLSR},
	0x5F: {"BBR5", modeRelative, opBBR(5)},

	0x60: {"RTS", modeImplied, opRTS},
	0x61: {"ADC", modeIndexedIndirect, opADC},
	0x62: {"CLA", modeImplied, opCLA},
	0x63: {"???", modeImplied, opUndefined},
	0x64: {"STZ", modeZeroPage, opSTZ},
	0x65: {"ADC", modeZeroPage, opADC},
	0x66: {"ROR", modeZeroPage, opROR},
	0x67: {"RMB6", modeZeroPage, opRMB(6)},
	0x68: {"PLA", modeImplied, opPLA},
	0x69: {"ADC", modeImmediate, opADC},
	0x6A: {"ROR", modeAccumulator, opROR},
	0x6B: {"???", modeImplied, opUndefined},
	0x6C: {"JMP", modeIndirect, opJMP},
	0x6D: {"ADC", modeAbsolute, opADC},
	0x6E: {"ROR", modeAbsolute, opROR},
	0x6F: {"BBR6", modeRelative, opBBR(6)},

	0x70: {"BVS", modeRelative, opBVS},
	0x71: {"ADC", modeIndirectIndexed, opADC},
	0x72: {"ADC", modeZeroPageIndirect, opADC},
	0x73: {"TII", modeImplied, opTII},
	0x74: {"STZ", modeZeroPageX, opSTZ},
	0x75: {"ADC", modeZeroPageX, opADC},
	0x76: {"ROR", modeZeroPageX, opROR},
	0x77: {"RMB7", modeZeroPage, opRMB(7)},
	0x78: {"SEI", modeImplied, opSEI},
	0x79: {"ADC", modeAbsoluteY, opADC},
	0x7A: {"PLY", modeImplied, opPLY},
	0x7B: {"???", modeImplied, opUndefined},
	0x7C: {"JMP", modeIndirectX, opJMP},
	0x7D: {"ADC", modeAbsoluteX, opADC},
	0x7E: {"ROR", modeAbsoluteX, opROR},
	0x7F: {"BBR7", modeRelative, opBBR(7)},

	0x80: {"BRA", modeRelative, opBRA},
	0x81: {"STA", modeIndexedIndirect, opSTA},
	0x82: {"CLX", modeImplied, opCLX},
	0x83: {"TST", modeZeroPage, opTST},
	0x84: {"STY", modeZeroPage, opSTY},
	0x85: {"STA", modeZeroPage, opSTA},
	0x86: {"STX", modeZeroPage, opSTX},
	0x87: {"SMB0", modeZeroPage, opSMB(0)},
	0x88: {"DEY", modeImplied, opDEY},
	0x89: {"BIT", modeImmediate, opBIT},
	0x8A: {"TXA", modeImplied, opTXA},
	0x8B: {"???", modeImplied, opUndefined},
	0x8C: {"STY", modeAbsolute, opSTY},
	0x8D: {"STA", modeAbsolute, opSTA},
	0x8E: {"STX", modeAbsolute, opSTX},
	0x8F: {"BBS0", modeRelative, opBBS(0)},

	0x90: {"BCC", modeRelative, opBCC},
	0x91: {"STA", modeIndirectIndexed, opSTA},
	0x92: {"STA", modeZeroPageIndirect, opSTA},
	0x93: {"TST", modeAbsolute, opTST},
	0x94: {"STY", modeZeroPageX, opSTY},
	0x95: {"STA", modeZeroPageX, opSTA},
	0x96: {"STX", modeZeroPageY, opSTX},
	0x97: {"SMB1", modeZeroPage, opSMB(1)},
	0x98: {"TYA", modeImplied, opTYA},
	0x99: {"STA", modeAbsoluteY, opSTA},
	0x9A: {"TXS", modeImplied, opTXS},
	0x9B: {"???", modeImplied, opUndefined},
	0x9C: {"STZ", modeAbsolute, opSTZ},
	0x9D: {"STA", modeAbsoluteX, opSTA},
	0x9E: {"STZ", modeAbsoluteX, opSTZ},
	0x9F: {"BBS1", modeRelative, opBBS(1)},

	0xA0: {"LDY", modeImmediate, opLDY},
	0xA1: {"LDA", modeIndexedIndirect, opLDA},
	0xA2: {"LDX", modeImmediate, opLDX},
	0xA3: {"TST", modeZeroPageX, opTST},
	0xA4: {"LDY", modeZeroPage, opLDY},
	0xA5: {"LDA", modeZeroPage, opLDA},
	0xA6: {"LDX", modeZeroPage, opLDX},
	0xA7: {"SMB2", modeZeroPage, opSMB(2)},
	0xA8: {"TAY", modeImplied, opTAY},
	0xA9: {"LDA", modeImmediate, opLDA},
	0xAA: {"TAX", modeImplied, opTAX},
	0xAB: {"???", modeImplied, opUndefined},
	0xAC: {"LDY", modeAbsolute, opLDY},
	0xAD: {"LDA", modeAbsolute, opLDA},
	0xAE: {"LDX", modeAbsolute, opLDX},
	0xAF: {"BBS2", modeRelative, opBBS(2)},

	0xB0: {"BCS", modeRelative, opBCS},
	0xB1: {"LDA", modeIndirectIndexed, opLDA},
	0xB2: {"LDA", modeZeroPageIndirect, opLDA},
	0xB3: {"TST", modeAbsoluteX, opTST},
	0xB4: {"LDY", modeZeroPageX, opLDY},
	0xB5: {"LDA", modeZeroPageX, opLDA},
	0xB6: {"LDX", modeZeroPageY, opLDX},
	0xB7: {"SMB3", modeZeroPage, opSMB(3)},
	0xB8: {"CLV", modeImplied, opCLV},
	0xB9: {"LDA", modeAbsoluteY, opLDA},
	0xBA: {"TSX", modeImplied, opTSX},
	0xBB: {"???", modeImplied, opUndefined},
	0xBC: {"LDY", modeAbsoluteX, opLDY},
	0xBD: {"LDA", modeAbsoluteX, opLDA},
	0xBE: {"LDX", modeAbsoluteY, opLDX},
	0xBF: {"BBS3", modeRelative, opBBS(3)},

	0xC0: {"CPY", modeImmediate, opCPY},
	0xC1: {"CMP", modeIndexedIndirect, opCMP},
	0xC2: {"CLY", modeImplied, opCLY},
	0xC3: {"TDD", modeImplied, opTDD},
	0xC4: {"CPY", modeZeroPage, opCPY},
	0xC5: {"CMP", modeZeroPage, opCMP},
	0xC6: {"DEC", modeZeroPage, opDEC},
	0xC7: {"SMB4", modeZeroPage, opSMB(4)},
	0xC8: {"INY", modeImplied, opINY},
	0xC9: {"CMP", modeImmediate, opCMP},
	0xCA: {"DEX", modeImplied, opDEX},
	0xCB: {"WAI", modeImplied, opWAI},
	0xCC: {"CPY", modeAbsolute, opCPY},
	0xCD: {"CMP", modeAbsolute, opCMP},
	0xCE: {"DEC", modeAbsolute, opDEC},
	0xCF: {"BBS4", modeRelative, opBBS(4)},

	0xD0: {"BNE", modeRelative, opBNE},
	0xD1: {"CMP", modeIndirectIndexed, opCMP},
	0xD2: {"CMP", modeZeroPageIndirect, opCMP},
	0xD3: {"TIN", modeImplied, opTIN},
	0xD4: {"CSH", modeImplied, opCSH},
	0xD5: {"CMP", modeZeroPageX, opCMP},
	0xD6: {"DEC", modeZeroPageX, opDEC},
	0xD7: {"SMB5", modeZeroPage, opSMB(5)},
	0xD8: {"CLD", modeImplied, opCLD},
	0xD9: {"CMP", modeAbsoluteY, opCMP},
	0xDA: {"PHX", modeImplied, opPHX},
	0xDB: {"???", modeImplied, opUndefined},
	0xDC: {"???", modeImplied, opUndefined},
	0xDD: {"CMP", modeAbsoluteX, opCMP},
	0xDE: {"DEC", modeAbsoluteX, opDEC},
	0xDF: {"BBS5", modeRelative, opBBS(5)},

	0xE0: {"CPX", modeImmediate, opCPX},
	0xE1: {"SBC", modeIndexedIndirect, opSBC},
	0xE2: {"???", modeImplied, opUndefined},
	0xE3: {"TIA", modeImplied, opTIA},
	0xE4: {"CPX", modeZeroPage, opCPX},
	0xE5: {"SBC", modeZeroPage, opSBC},
	0xE6: {"INC", modeZeroPage, opINC},
	0xE7: {"SMB6", modeZeroPage, opSMB(6)},
	0xE8: {"INX", modeImplied, opINX},
	0xE9: {"SBC", modeImmediate, opSBC},
	0xEA: {"NOP", modeImplied, opNOP},
	0xEB: {"???", modeImplied, opUndefined},
	0xEC: {"CPX", modeAbsolute, opCPX},
	0xED: {"SBC", modeAbsolute, opSBC},
	0xEE: {"INC", modeAbsolute, opINC},
	0xEF: {"BBS6", modeRelative, opBBS(6)},

	0xF0: {"BEQ", modeRelative, opBEQ},
	0xF1: {"SBC", modeIndirectIndexed, opSBC},
	0xF2: {"SBC", modeZeroPageIndirect, opSBC},
	0xF3: {"TAI", modeImplied, opTAI},
	0xF4: {"SET", modeImplied, opSET},
	0xF5: {"SBC", modeZeroPageX, opSBC},
	0xF6: {"INC", modeZeroPageX, opINC},
	0xF7: {"SMB7", modeZeroPage, opSMB(7)},
	0xF8: {"SED", modeImplied, opSED},
	0xF9: {"SBC", modeAbsoluteY, opSBC},
	0xFA: {"PLX", modeImplied, opPLX},
	0xFB: {"???", modeImplied, opUndefined},
	0xFC: {"???", modeImplied, opUndefined},
	0xFD: {"SBC", modeAbsoluteX, opSBC},
	0xFE: {"INC", modeAbsoluteX, opINC},
	0xFF: {"BBS7", modeRelative, opBBS(7)},
}
