// flatten.go turns an exception tree into the ordered record sequence a
// report carries.

package unisen

// Flatten walks the cause tree rooted at root and returns one record per
// visited exception, root first, depth first. An aggregate node contributes
// each bundled sub-tree in its original order, each emitted fully before the
// next begins; every other node contributes its single cause chain. A node
// with no frames of its own takes a copy of fallback.
//
// A nil root yields an empty sequence. The walk keeps its own work list
// instead of recursing, so pathological cause-chain depth cannot grow the
// call stack.
func Flatten(root ExceptionSource, fallback []StackFrame) []ExceptionRecord {
	if root == nil {
		return nil
	}

	var records []ExceptionRecord
	work := []ExceptionSource{root}

	for len(work) > 0 {
		node := work[len(work)-1]
		work = work[:len(work)-1]
		if node == nil {
			continue
		}

		records = append(records, recordFromSource(node, fallback))

		if bundle := node.Bundled(); len(bundle) > 0 {
			// Push in reverse so the bundle pops in original order.
			for i := len(bundle) - 1; i >= 0; i-- {
				work = append(work, bundle[i])
			}
			continue
		}
		if cause := node.Cause(); cause != nil {
			work = append(work, cause)
		}
	}

	return records
}

// recordFromSource converts one node, substituting fallback frames when the
// node carries none of its own.
func recordFromSource(node ExceptionSource, fallback []StackFrame) ExceptionRecord {
	frames := node.StackFrames()
	if len(frames) == 0 {
		frames = append([]StackFrame(nil), fallback...)
	}
	return NewExceptionRecord(node.ErrorClass(), node.Message(), frames)
}
