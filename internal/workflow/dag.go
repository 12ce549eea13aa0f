package workflow

import "fmt"

// ValidateDAG checks that steps have unique ids, that every depends_on id
// exists, and that the graph is acyclic. Returns *CycleError on graph faults.
func ValidateDAG(steps []StepSpec) error {
	if len(steps) == 0 {
		return ErrEmptyPlan
	}

	byID := make(map[string]StepSpec, len(steps))
	for _, s := range steps {
		if s.ID == "" {
			return fmt.Errorf("%w: step with empty id", ErrDuplicateStepID)
		}
		if _, ok := byID[s.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateStepID, s.ID)
		}
		byID[s.ID] = s
	}

	for _, s := range steps {
		for _, dep := range s.DependsOn {
			if _, ok := byID[dep]; !ok {
				return &CycleError{StepID: s.ID, Reason: fmt.Sprintf("depends on unknown step %q", dep)}
			}
			if dep == s.ID {
				return &CycleError{StepID: s.ID, Reason: "depends on itself"}
			}
		}
	}

	// Kahn's algorithm; anything left with in-degree > 0 is on a cycle.
	indegree := make(map[string]int, len(steps))
	for _, s := range steps {
		indegree[s.ID] = len(s.DependsOn)
	}

	processed := 0
	for {
		progressed := false
		for _, s := range steps {
			if indegree[s.ID] == 0 {
				indegree[s.ID] = -1 // Mark done
				processed++
				progressed = true
				for _, t := range steps {
					for _, dep := range t.DependsOn {
						if dep == s.ID {
							indegree[t.ID]--
						}
					}
				}
			}
		}
		if !progressed {
			break
		}
	}

	if processed != len(steps) {
		for _, s := range steps {
			if indegree[s.ID] > 0 {
				return &CycleError{StepID: s.ID, Reason: "dependency cycle"}
			}
		}
	}

	return nil
}

// TopologicalOrder returns step ids in a deterministic dependency-respecting
// order: among ready steps, declaration order wins. Call ValidateDAG first;
// this panics on cyclic input only via infinite-loop protection.
func TopologicalOrder(steps []StepSpec) ([]string, error) {
	if err := ValidateDAG(steps); err != nil {
		return nil, err
	}

	done := make(map[string]bool, len(steps))
	order := make([]string, 0, len(steps))

	for len(order) < len(steps) {
		progressed := false
		for _, s := range steps {
			if done[s.ID] {
				continue
			}
			ready := true
			for _, dep := range s.DependsOn {
				if !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				done[s.ID] = true
				order = append(order, s.ID)
				progressed = true
			}
		}
		if !progressed {
			// Unreachable after ValidateDAG, kept as a hard stop.
			return nil, &CycleError{StepID: "", Reason: "no ready step"}
		}
	}

	return order, nil
}
