package arch

func init() {
	Register("ncopy", newNcopy)
}

// newNcopy is pipe_std plus one extra forwarding source (the memory
// unit's output keyed by the M register's DstM). That source selects
// the same value as pipe_std's own memory-stage ValM source, so the
// ncopy loop's mrmovq/rmmovq pair takes the same one-cycle load/use
// stall it takes on pipe_std.
func newNcopy(mem *[0x2000]byte, ttyOut bool) CpuSim {
	return newPipeVariant(mem, ttyOut, true, true)
}
