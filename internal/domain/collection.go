package domain

// Las secuencias ordenadas del modelo (goals, pain points, items de
// secciones, stages, touchpoints) se editan unicamente por estas tres
// operaciones. Cada una devuelve una secuencia nueva y deja la original
// intacta, asi el workspace puede detectar cambios por comparacion.

// Append devuelve una nueva secuencia con item al final.
func Append[T any](seq []T, item T) []T {
	out := make([]T, len(seq)+1)
	copy(out, seq)
	out[len(seq)] = item
	return out
}

// RemoveAt devuelve una nueva secuencia sin el elemento en index.
// Falla con ErrIndexOutOfRange si index es invalido y con ErrMinimumSize
// si la remocion dejaria la secuencia por debajo de minLen.
func RemoveAt[T any](seq []T, index, minLen int) ([]T, error) {
	if index < 0 || index >= len(seq) {
		return nil, ErrIndexOutOfRange
	}
	if len(seq)-1 < minLen {
		return nil, ErrMinimumSize
	}
	out := make([]T, 0, len(seq)-1)
	out = append(out, seq[:index]...)
	out = append(out, seq[index+1:]...)
	return out, nil
}

// UpdateAt devuelve una nueva secuencia con value en index, preservando
// el resto de posiciones y su orden.
func UpdateAt[T any](seq []T, index int, value T) ([]T, error) {
	if index < 0 || index >= len(seq) {
		return nil, ErrIndexOutOfRange
	}
	out := make([]T, len(seq))
	copy(out, seq)
	out[index] = value
	return out, nil
}
