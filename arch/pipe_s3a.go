package arch

func init() {
	Register("pipe_s3a", newPipeS3a)
}

// newPipeS3a is the stall-only pipeline variant: the same five stages
// and hazard unit as pipe_std, but with every forwarding path removed,
// so any register dependency between in-flight instructions stalls
// decode until the producer has written back.
func newPipeS3a(mem *[0x2000]byte, ttyOut bool) CpuSim {
	return newPipeVariant(mem, ttyOut, false, false)
}
