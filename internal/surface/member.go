package surface

// MemberKind classifies one extracted API entity
type MemberKind string

const (
	MemberClass       MemberKind = "class"
	MemberInterface   MemberKind = "interface"
	MemberStruct      MemberKind = "struct"
	MemberEnum        MemberKind = "enum"
	MemberDelegate    MemberKind = "delegate"
	MemberMethod      MemberKind = "method"
	MemberProperty    MemberKind = "property"
	MemberField       MemberKind = "field"
	MemberEvent       MemberKind = "event"
	MemberConstructor MemberKind = "constructor"
)

// KindForType maps a type kind to the corresponding member kind
func KindForType(k TypeKind) MemberKind {
	switch k {
	case KindInterface:
		return MemberInterface
	case KindStruct:
		return MemberStruct
	case KindEnum:
		return MemberEnum
	case KindDelegate:
		return MemberDelegate
	default:
		return MemberClass
	}
}

// ApiMember is one exported entity: a type itself, or a member belonging
// to a type. Produced once per extraction pass and immutable afterward.
// Signature is a pure function of the declared shape and is the matching
// key for member-level diffing within one type.
type ApiMember struct {
	Name          string        `json:"name"`
	FullName      string        `json:"fullName"`
	Namespace     string        `json:"namespace,omitempty"`
	DeclaringType string        `json:"declaringType,omitempty"` // empty for top-level types
	Signature     string        `json:"signature"`
	Kind          MemberKind    `json:"kind"`
	Accessibility Accessibility `json:"accessibility"`
	Attributes    []string      `json:"attributes,omitempty"`
}
