package abstract

import "fmt"

// BroadcastShapes computes the NumPy-style broadcast of a set of shapes,
// right-aligning dimensions and requiring each pair to either match, have
// size 1, or be ANYTHING (§4.3 Elemwise: "the final broadcast shape is
// computed"). It returns an error describing the mismatch otherwise.
func BroadcastShapes(shapes []Shape) (Shape, error) {
	if len(shapes) == 0 {
		return Shape{}, nil
	}
	rank := 0
	for _, s := range shapes {
		if len(s) > rank {
			rank = len(s)
		}
	}
	result := make(Shape, rank)
	for i := range result {
		result[i] = Fixed(1)
	}
	for _, s := range shapes {
		offset := rank - len(s)
		for i, d := range s {
			pos := offset + i
			var err error
			result[pos], err = broadcastDim(result[pos], d)
			if err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

func broadcastDim(a, b Dim) (Dim, error) {
	if a.IsWildcard() || b.IsWildcard() {
		return Anything, nil
	}
	as, _ := a.Size()
	bs, _ := b.Size()
	if as == bs {
		return a, nil
	}
	if as == 1 {
		return b, nil
	}
	if bs == 1 {
		return a, nil
	}
	return Dim{}, fmt.Errorf("shape mismatch: cannot broadcast dimension %d against %d", as, bs)
}
