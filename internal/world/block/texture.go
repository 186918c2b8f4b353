package block

// AtlasCell адресует ячейку общего атласа текстур (столбец, строка)
type AtlasCell struct {
	Col uint32
	Row uint32
}

// BlockTexture хранит ячейки атласа для верхней, нижней и боковых граней
type BlockTexture struct {
	Top    AtlasCell
	Bottom AtlasCell
	Side   AtlasCell
}

// FaceGroup определяет, какую из трех ячеек брать для грани
type FaceGroup uint8

const (
	GroupTop FaceGroup = iota
	GroupBottom
	GroupSide
)

// Cell возвращает ячейку атласа для группы граней
func (t BlockTexture) Cell(group FaceGroup) AtlasCell {
	switch group {
	case GroupTop:
		return t.Top
	case GroupBottom:
		return t.Bottom
	default:
		return t.Side
	}
}

func uniform(col, row uint32) BlockTexture {
	c := AtlasCell{Col: col, Row: row}
	return BlockTexture{Top: c, Bottom: c, Side: c}
}

var textures = [blockTypeCount]BlockTexture{
	Grass: {
		Top:    AtlasCell{Col: 0, Row: 0},
		Bottom: AtlasCell{Col: 2, Row: 0},
		Side:   AtlasCell{Col: 1, Row: 0},
	},
	Dirt:  uniform(2, 0),
	Sand:  uniform(3, 0),
	Wood:  uniform(4, 0),
	Leaf:  uniform(9, 9),
	Stone: uniform(5, 0),
	Plank: uniform(6, 0),
	Coal:  uniform(7, 0),
	Water: uniform(8, 0),
}

// Texture возвращает ячейки атласа вида блока. Для значений вне
// перечисления возвращается текстура земли.
func (b BlockType) Texture() BlockTexture {
	if !b.Valid() {
		return textures[Dirt]
	}
	return textures[b]
}
