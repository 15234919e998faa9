package dct

// Cube holds the coefficients of a patch grid. Blocks are stored row-major
// over the grid and each block is row-major over its Size x Size
// coefficients.
type Cube struct {
	Rows, Cols int
	Size       int
	Coef       []float64
}

func NewCube(rows, cols, size int) *Cube {
	return &Cube{
		Rows: rows,
		Cols: cols,
		Size: size,
		Coef: make([]float64, rows*cols*size*size),
	}
}

// Blocks returns the number of patches.
func (c *Cube) Blocks() int {
	return c.Rows * c.Cols
}

// Block returns the coefficients of the i-th patch. The slice aliases Coef.
func (c *Cube) Block(i int) []float64 {
	area := c.Size * c.Size
	return c.Coef[i*area : (i+1)*area : (i+1)*area]
}

// Column gathers the coefficient at raw index b of every block.
func (c *Cube) Column(b int) []float64 {
	area := c.Size * c.Size
	col := make([]float64, c.Blocks())
	for i := range col {
		col[i] = c.Coef[i*area+b]
	}
	return col
}

// AddColumn adds v[i] to the coefficient at raw index b of block i.
func (c *Cube) AddColumn(b int, v []float64) {
	area := c.Size * c.Size
	for i := range v {
		c.Coef[i*area+b] += v[i]
	}
}

func (c *Cube) Clone() *Cube {
	cp := *c
	cp.Coef = make([]float64, len(c.Coef))
	copy(cp.Coef, c.Coef)
	return &cp
}
