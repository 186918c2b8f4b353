package block

import (
	"fmt"
	"strings"

	"github.com/annel0/blockverse/internal/vec"
)

// BlockType перечисляет виды вокселей. Набор закрыт: новые виды
// добавляются только вместе с записью в таблице текстур.
type BlockType uint8

// Константы видов блоков
const (
	Grass BlockType = iota // 0
	Dirt                   // 1
	Sand                   // 2
	Wood                   // 3
	Leaf                   // 4
	Stone                  // 5
	Plank                  // 6
	Coal                   // 7
	Water                  // 8

	blockTypeCount // всегда последний
)

var names = [blockTypeCount]string{
	Grass: "grass",
	Dirt:  "dirt",
	Sand:  "sand",
	Wood:  "wood",
	Leaf:  "leaf",
	Stone: "stone",
	Plank: "plank",
	Coal:  "coal",
	Water: "water",
}

// Valid сообщает, входит ли значение в перечисление
func (b BlockType) Valid() bool {
	return b < blockTypeCount
}

// String возвращает имя вида блока, как оно пишется в конфиге
func (b BlockType) String() string {
	if !b.Valid() {
		return fmt.Sprintf("block(%d)", uint8(b))
	}
	return names[b]
}

// ParseBlockType ищет вид блока по имени без учета регистра
func ParseBlockType(name string) (BlockType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return BlockType(i), nil
		}
	}
	return 0, fmt.Errorf("неизвестный тип блока %q", name)
}

// All возвращает все виды блоков в порядке объявления
func All() []BlockType {
	all := make([]BlockType, 0, blockTypeCount)
	for b := BlockType(0); b < blockTypeCount; b++ {
		all = append(all, b)
	}
	return all
}

// Cycle выбирает вид блока по индексу с переполнением в обе стороны,
// как при перелистывании выбранного блока игроком.
func Cycle(index int) BlockType {
	return BlockType(vec.FloorMod(index, int(blockTypeCount)))
}
