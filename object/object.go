package object

// SymbolTable maps a label name to the absolute byte address it resolved
// to during assembly.
type SymbolTable map[string]uint64

// Object is the result of assembling a program: a memory image plus the
// symbol table used to resolve it.
type Object struct {
	Memory  *Memory
	Symbols SymbolTable
}

// NewObject returns an Object backed by a fresh, zeroed memory image.
func NewObject() *Object {
	return &Object{Memory: NewMemory(), Symbols: SymbolTable{}}
}

// Resolve looks up a label, reporting whether it was defined.
func (o *Object) Resolve(label string) (uint64, bool) {
	addr, ok := o.Symbols[label]
	return addr, ok
}
