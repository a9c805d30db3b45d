package tmx

// Tiles of an unencoded layer arrive one <tile gid="..."/> at a time. The
// grid is allocated up front and its last slot doubles as a countdown of the
// slots still empty, so no separate fill counter is needed:
//
//	tiles[n-1] = n-1             on allocation (n > 1)
//	tiles[n - tiles[n-1] - 1] = gid
//	tiles[n-1]--                 unless the slot just written was n-1
//
// A gid of 0 never takes a slot. Once the final slot holds a real gid the
// countdown is gone; a grid that stopped short has its countdown cleared by
// finishTileSlots.

// newTileSlots allocates the grid for n tiles with the countdown armed.
func newTileSlots(n int) []uint32 {
	tiles := make([]uint32, max(n, 0))
	if n > 1 {
		tiles[n-1] = uint32(n - 1)
	}
	return tiles
}

// placeTile stores gid in the next free slot. It reports whether gid was
// stored.
func placeTile(tiles []uint32, gid uint32) bool {
	n := len(tiles)
	if gid == 0 || n == 0 {
		return false
	}

	if n == 1 {
		if tiles[0] != 0 {
			return false
		}
		tiles[0] = gid
		return true
	}

	// Every slot including the countdown slot holds a gid.
	if tiles[n-2] != 0 && tiles[n-1] != 0 {
		return false
	}

	idx := n - int(tiles[n-1]) - 1
	tiles[idx] = gid
	if idx != n-1 {
		tiles[n-1]--
	}
	return true
}

// finishTileSlots clears a countdown left behind by a partially filled grid.
func finishTileSlots(tiles []uint32) {
	n := len(tiles)
	if n > 1 && tiles[n-2] == 0 {
		tiles[n-1] = 0
	}
}
