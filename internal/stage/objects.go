package stage

import (
	"fmt"

	"minipak.dev/internal/tiles"
)

// Kind is the object type digit read by the cart.
type Kind int

const (
	KindPlayer Kind = iota
	KindHeartKey
	KindDiamondKey
	KindTriangleKey
	KindCoinKey
	KindOctogem
	KindNormalState
	KindFireState
	KindIceState
	KindGenericKey
	KindPortal
	KindArrow
)

// Object is one interactive entity of a stage. Payload is a sprite id,
// a sub-state, or for portals the packed position of the partner.
type Object struct {
	Kind    Kind
	X, Y    int
	Payload int
}

// String renders the five-character record: kind, x, y, two payload digits.
func (o Object) String() string {
	return fmt.Sprintf("%x%x%x%02x", int(o.Kind), o.X&0xf, o.Y&0xf, o.Payload&0xff)
}

func posKey(x, y int) int { return (x&0xf)<<4 | y&0xf }

type fixedObject struct {
	kind    Kind
	payload int
}

// fixedObjects are cells that always spawn the same object.
var fixedObjects = map[int]fixedObject{
	tiles.HeartKey:    {KindHeartKey, 0x53},
	tiles.DiamondKey:  {KindDiamondKey, 0x54},
	tiles.TriangleKey: {KindTriangleKey, 0x55},
	tiles.CoinKey:     {KindCoinKey, 0x56},
	tiles.NormalState: {KindNormalState, 0xe6},
	tiles.FireState:   {KindFireState, 0xe7},
	tiles.IceState:    {KindIceState, 0xe8},
	tiles.GenericKey:  {KindGenericKey, 0x9f},
}

// portalPairs buffers the first portal of each colour until its partner is
// found. A colour left pending at the end of the stage emits nothing.
type portalPairs struct {
	pending [tiles.PortalSlots]bool
	pos     [tiles.PortalSlots][2]int
}

// visit records a portal at (x,y). When it completes a pair it returns the
// two linked records, A->B first.
func (p *portalPairs) visit(sub, x, y int) []Object {
	if sub < 0 || sub >= tiles.PortalSlots {
		return nil
	}
	if !p.pending[sub] {
		p.pending[sub] = true
		p.pos[sub] = [2]int{x, y}
		return nil
	}
	p.pending[sub] = false
	ox, oy := p.pos[sub][0], p.pos[sub][1]
	return []Object{
		{Kind: KindPortal, X: x, Y: y, Payload: posKey(ox, oy)},
		{Kind: KindPortal, X: ox, Y: oy, Payload: posKey(x, y)},
	}
}
