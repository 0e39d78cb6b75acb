package signature

// checkDuplicates rejects an overload that lists the same parameter twice.
func checkDuplicates(overloads [][]Param) error {
	for i, ov := range overloads {
		seen := make(map[Param]bool, len(ov))
		for _, p := range ov {
			if seen[p] {
				return &StructuralError{Err: ErrDuplicateParameter, Overload: i, Params: []Param{p}}
			}
			seen[p] = true
		}
	}
	return nil
}

// unionOrder returns every distinct parameter once, in an order that
// respects each overload's own order. Among parameters free to go next,
// the one seen first wins.
func unionOrder(overloads [][]Param) ([]Param, error) {
	index := make(map[Param]int)
	var params []Param
	for _, ov := range overloads {
		for _, p := range ov {
			if _, ok := index[p]; !ok {
				index[p] = len(params)
				params = append(params, p)
			}
		}
	}

	n := len(params)
	succ := make([]map[int]bool, n)
	indeg := make([]int, n)
	for _, ov := range overloads {
		for k := 1; k < len(ov); k++ {
			a, b := index[ov[k-1]], index[ov[k]]
			if succ[a] == nil {
				succ[a] = make(map[int]bool)
			}
			if !succ[a][b] {
				succ[a][b] = true
				indeg[b]++
			}
		}
	}

	placed := make([]bool, n)
	order := make([]Param, 0, n)
	for len(order) < n {
		next := -1
		for i := 0; i < n; i++ {
			if !placed[i] && indeg[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, &StructuralError{Err: ErrAmbiguousOrder, Overload: -1, Params: unplaced(params, placed)}
		}
		placed[next] = true
		order = append(order, params[next])
		for s := range succ[next] {
			indeg[s]--
		}
	}
	return order, nil
}

func unplaced(params []Param, placed []bool) []Param {
	var out []Param
	for i, p := range params {
		if !placed[i] {
			out = append(out, p)
		}
	}
	return out
}
