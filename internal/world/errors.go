package world

import (
	"errors"
	"fmt"

	"github.com/annel0/blockverse/internal/vec"
)

var (
	// ErrChunkNotLoaded - правка указывает в незагруженный чанк
	ErrChunkNotLoaded = errors.New("чанк не загружен")
	// ErrInvalidPlacement - установка пустого вокселя
	ErrInvalidPlacement = errors.New("недопустимый воксель для установки")
)

// EditError описывает отклонённую правку
type EditError struct {
	Request EditRequest
	Chunk   vec.Vec3
	Err     error
}

func (e *EditError) Error() string {
	return fmt.Sprintf("%s (чанк %s): %v", e.Request, e.Chunk, e.Err)
}

func (e *EditError) Unwrap() error {
	return e.Err
}

// MeshError - ошибка перестроения геометрии чанка
type MeshError struct {
	Chunk vec.Vec3
	Err   error
}

func (e *MeshError) Error() string {
	return fmt.Sprintf("меш чанка %s: %v", e.Chunk, e.Err)
}

func (e *MeshError) Unwrap() error {
	return e.Err
}
