package tiles

// Bitmask packs an element id (low 5 bits) and its sub-state (next 3 bits)
// into the byte stored per puzzle cell.
func Bitmask(element, sub int) int { return element | sub<<5 }

func Element(b int) int { return b & 0x1f }
func Sub(b int) int     { return (b >> 5) & 0x7 }

// Element ids.
const (
	ElemFloor      = 1
	ElemKey        = 2
	ElemLockOn     = 3
	ElemLockOff    = 4
	ElemPortal     = 5
	ElemConveyor   = 6
	ElemZapper     = 7
	ElemState      = 8
	ElemFloorKind  = 9
	ElemBlock      = 10
	ElemGenericKey = 12
	ElemOctogem    = 15
	ElemArrow      = 17
)

// Cell values with a fixed meaning for the encoder and the lookup table.
const (
	Void   = 0
	Floor  = ElemFloor
	Player = ElemFloor | 1<<5

	HeartKey    = ElemKey
	DiamondKey  = ElemKey | 1<<5
	TriangleKey = ElemKey | 2<<5
	CoinKey     = ElemKey | 3<<5

	NormalState = ElemState
	FireState   = ElemState | 1<<5
	IceState    = ElemState | 2<<5

	Cracked   = ElemFloorKind
	Lava      = ElemFloorKind | 1<<5
	Water     = ElemFloorKind | 2<<5
	IceFloor  = ElemFloorKind | 3<<5
	SlimeTrap = ElemFloorKind | 4<<5

	IceBlock   = ElemBlock
	OctoOn     = ElemBlock | 2<<5
	OctoOff    = ElemBlock | 3<<5
	LockBlock  = ElemBlock | 4<<5
	GenericKey = ElemGenericKey | 1<<5

	SlimeNormal     = 240
	SlimeFire       = 241
	SlimeIce        = 242
	Pit             = 252
	ClosedSlimeTrap = 253
	DarkCracked     = 254
	DarkFloor       = 255
)

// PortalSlots is the number of distinct floor-portal colours.
const PortalSlots = 4
