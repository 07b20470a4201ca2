package resource

import "hash/fnv"

// Mode describes how a task accesses a resource.
type Mode int

const (
	Read Mode = iota
	Write
)

// String implements fmt.Stringer for log output.
func (m Mode) String() string {
	if m == Write {
		return "WRITE"
	}
	return "READ"
}

// ID is the unique identity of a resource: the (owning type, member) pair.
// Two IDs are equal iff their Members are equal; mode plays no part in
// identity, only in a Descriptor.
type ID struct {
	member Member
}

// Of builds a resource ID from a Member.
func Of(m Member) ID { return ID{member: m} }

// Member returns the underlying member identity.
func (id ID) Member() Member { return id.member }

// Hash returns a stable, mode-independent hash code for the resource. Equal
// identities always yield equal hashes; it is used as the scheduler's
// resource key.
func (id ID) Hash() uint64 {
	h := fnv.New64a()
	if owner := id.member.owner; owner != nil {
		_, _ = h.Write([]byte(owner.PkgPath()))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(owner.Name()))
	}
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(id.member.name))
	return h.Sum64()
}

// String renders the resource identity for logs.
func (id ID) String() string { return id.member.String() }
