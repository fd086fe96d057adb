package vecdot

// WorkspaceElems returns the workspace capacity, in accumulation elements,
// a reduction of batch entries of n elements of T needs on h:
// (blocks per entry + 1) * max(batch, 1). A nil handle needs none.
func WorkspaceElems[T Element](h *Handle, n, batch int) int {
	if h == nil {
		return 0
	}
	return engineFor[T](h.isWide()).workspaceElems(n, batch, h.blockSize)
}

// WorkspaceSize returns the device memory, in bytes, a reduction of batch
// entries of n elements of T allocates on h. Degenerate reductions need none.
func WorkspaceSize[T Element](h *Handle, n, batch int) (int64, error) {
	if h == nil {
		return 0, ErrInvalidHandle
	}
	bytes, err := engineFor[T](h.isWide()).workspaceBytes(n, batch, h.blockSize)
	if err != nil {
		return 0, translateError(err)
	}
	return bytes, nil
}
