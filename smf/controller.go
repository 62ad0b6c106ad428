package smf

import "fmt"

// Controller is a control change number, 0-127.
type Controller uint8

// Commonly used controller numbers.
const (
	BankSelect       Controller = 0
	ModulationWheel  Controller = 1
	ChannelVolume    Controller = 7
	Pan              Controller = 10
	Expression       Controller = 11
	SustainPedal     Controller = 64
	AllSoundOff      Controller = 120
	ResetControllers Controller = 121
	AllNotesOff      Controller = 123
)

// NewController clamps code into [0,127].
func NewController(code int) Controller { return Controller(clamp7(code)) }

// Name is the General MIDI name, or "Undefined".
func (c Controller) Name() string {
	if name, ok := controllerNames[c]; ok {
		return name
	}
	return "Undefined"
}

func (c Controller) String() string { return fmt.Sprintf("%d (%s)", uint8(c), c.Name()) }

var controllerNames = map[Controller]string{
	0: "Bank Select (Detail)",
	1: "Modulation Wheel",
	2: "Breath Controller",
	4: "Foot Controller",
	5: "Portamento Time",
	6: "Data Entry (used with RPNs/NRPNs)",
	7: "Channel Volume",
	8: "Balance",
	10: "Pan",
	11: "Expression Controller",
	12: "Effect Control 1",
	13: "Effect Control 2",
	16: "Gen Purpose Controller 1",
	17: "Gen Purpose Controller 2",
	18: "Gen Purpose Controller 3",
	19: "Gen Purpose Controller 4",
	32: "Bank Select",
	33: "Modulation Wheel",
	34: "Breath Controller",
	36: "Foot Controller",
	37: "Portamento Time",
	38: "Data Entry",
	39: "Channel Volume",
	40: "Balance",
	42: "Pan",
	43: "Expression Controller",
	44: "Effect Control 1",
	45: "Effect Control 2",
	48: "General Purpose Controller 1",
	49: "General Purpose Controller 2",
	50: "General Purpose Controller 3",
	51: "General Purpose Controller 4",
	64: "Sustain On/Off",
	65: "Portamento On/Off",
	66: "Sostenuto On/Off",
	67: "Soft Pedal On/Off",
	68: "Legato On/Off",
	69: "Hold 2 On/Off",
	70: "Sound Controller 1   (TG: Sound Variation;   FX: Exciter On/Off)",
	71: "Sound Controller 2   (TG: Harmonic Content;   FX: Compressor On/Off)",
	72: "Sound Controller 3   (TG: Release Time;   FX: Distortion On/Off)",
	73: "Sound Controller 4   (TG: Attack Time;   FX: EQ On/Off)",
	74: "Sound Controller 5   (TG: Brightness;   FX: Expander On/Off)",
	75: "Sound Controller 6   (TG: Decay Time;   FX: Reverb On/Off)",
	76: "Sound Controller 7   (TG: Vibrato Rate;   FX: Delay On/Off)",
	77: "Sound Controller 8   (TG: Vibrato Depth;   FX: Pitch Transpose On/Off)",
	78: "Sound Controller 9   (TG: Vibrato Delay;   FX: Flange/Chorus On/Off)",
	79: "Sound Controller 10   (TG: Undefined;   FX: Special Effects On/Off)",
	80: "General Purpose Controller 5",
	81: "General Purpose Controller 6",
	82: "General Purpose Controller 7",
	83: "General Purpose Controller 8",
	84: "Portamento Control (PTC)   (0vvvvvvv is the source Note number)   (Detail)",
	88: "High Resolution Velocity Prefix",
	91: "Effects 1 Depth (Reverb Send Level)",
	92: "Effects 2 Depth (Tremelo Depth)",
	93: "Effects 3 Depth (Chorus Send Level)",
	94: "Effects 4 Depth (Celeste Depth)",
	95: "Effects 5 Depth (Phaser Depth)",
	96: "Data Increment",
	97: "Data Decrement",
	98: "Non Registered Parameter Number (LSB)",
	99: "Non Registered Parameter Number (MSB)",
	100: "Registered Parameter Number (LSB)",
	101: "Registered Parameter Number (MSB)",
	120: "All Sound Off",
	121: "Reset All Controllers",
	122: "Local Control On/Off",
	123: "All Notes Off",
	124: "Omni Mode Off (also causes ANO)",
	125: "Omni Mode On (also causes ANO)",
	126: "Mono Mode On (Poly Off; also causes ANO)",
	127: "Poly Mode On (Mono Off; also causes ANO)",
}
