package block

import (
	"errors"
	"fmt"
)

// ErrUnsupportedVoxel возвращается, когда ядро встречает полупрозрачный
// (Semi) воксель. Такой вариант объявлен, но не поддерживается.
var ErrUnsupportedVoxel = errors.New("неподдерживаемый вариант вокселя")

// Kind различает варианты вокселя
type Kind uint8

const (
	KindEmpty Kind = iota
	KindFull
	KindSemi
)

// Voxel - одна ячейка сетки чанка: пустая или заполненная видом блока.
// Нулевое значение - пустой воксель.
type Voxel struct {
	kind    Kind
	species BlockType
}

// Empty возвращает пустой воксель
func Empty() Voxel {
	return Voxel{}
}

// Full возвращает воксель, заполненный видом блока
func Full(species BlockType) Voxel {
	return Voxel{kind: KindFull, species: species}
}

// Semi возвращает частичный воксель. Ядро такие воксели отвергает.
func Semi(species BlockType) Voxel {
	return Voxel{kind: KindSemi, species: species}
}

func (v Voxel) Kind() Kind { return v.kind }

func (v Voxel) IsEmpty() bool { return v.kind == KindEmpty }

func (v Voxel) IsFull() bool { return v.kind == KindFull }

// Species возвращает вид блока и true для непустых вокселей
func (v Voxel) Species() (BlockType, bool) {
	if v.kind == KindEmpty {
		return 0, false
	}
	return v.species, true
}

// Supported проверяет, что воксель можно хранить и строить меш
func (v Voxel) Supported() error {
	if v.kind == KindSemi {
		return fmt.Errorf("%w: %s", ErrUnsupportedVoxel, v)
	}
	return nil
}

func (v Voxel) String() string {
	switch v.kind {
	case KindEmpty:
		return "empty"
	case KindFull:
		return "full(" + v.species.String() + ")"
	default:
		return "semi(" + v.species.String() + ")"
	}
}
