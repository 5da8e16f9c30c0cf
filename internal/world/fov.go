package world

// ComputeFOV recomputes Visible from the origin out to radius using ray
// casting, and marks every visible cell as explored. Walls block sight but
// are themselves visible.
func (d *Dungeon) ComputeFOV(originX, originY, radius int) {
	d.ensureGrids()
	for y := range d.Visible {
		for x := range d.Visible[y] {
			d.Visible[y][x] = false
		}
	}
	if !d.InBounds(originX, originY) {
		return
	}

	d.reveal(originX, originY)
	for i := -radius; i <= radius; i++ {
		d.castRay(originX, originY, originX+i, originY-radius, radius)
		d.castRay(originX, originY, originX+i, originY+radius, radius)
		d.castRay(originX, originY, originX-radius, originY+i, radius)
		d.castRay(originX, originY, originX+radius, originY+i, radius)
	}
}

// IsVisible reports whether the cell is in the current field of view.
func (d *Dungeon) IsVisible(x, y int) bool {
	return d.InBounds(x, y) && y < len(d.Visible) && x < len(d.Visible[y]) && d.Visible[y][x]
}

// IsExplored reports whether the cell has ever been seen.
func (d *Dungeon) IsExplored(x, y int) bool {
	return d.InBounds(x, y) && y < len(d.Explored) && x < len(d.Explored[y]) && d.Explored[y][x]
}

// castRay walks a Bresenham line from (x0,y0) towards (x1,y1), revealing cells
// until it leaves the map, exceeds radius or hits a wall.
func (d *Dungeon) castRay(x0, y0, x1, y1, radius int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	errAcc := dx + dy
	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x += sx
		}
		if e2 <= dx {
			errAcc += dx
			y += sy
		}
		if !d.InBounds(x, y) {
			return
		}
		if (x-x0)*(x-x0)+(y-y0)*(y-y0) > radius*radius {
			return
		}
		d.reveal(x, y)
		if d.Tiles[y][x].BlocksSight() {
			return
		}
	}
}

func (d *Dungeon) reveal(x, y int) {
	d.Visible[y][x] = true
	d.Explored[y][x] = true
}

// ensureGrids allocates visibility grids that are missing or mis-sized.
func (d *Dungeon) ensureGrids() {
	if len(d.Visible) != d.Height {
		d.Visible = newGrid(d.Width, d.Height)
	}
	if len(d.Explored) != d.Height {
		d.Explored = newGrid(d.Width, d.Height)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
