package schema

//go:generate go tool stringer -type=FieldKind -linecomment -output=kind_string.go

// FieldKind is the closed set of field types the mapper treats specially.
// Every other declared type string maps to KindOther and keeps its raw name
// in FieldDefinition.Type.
type FieldKind int

const (
	KindOther     FieldKind = iota // other
	KindString                     // string
	KindSlug                       // slug
	KindReference                  // reference
	KindImage                      // image
	KindFile                       // file
	KindArray                      // array
	KindBlock                      // block
)

var kindByName = map[string]FieldKind{
	"string":    KindString,
	"slug":      KindSlug,
	"reference": KindReference,
	"image":     KindImage,
	"file":      KindFile,
	"array":     KindArray,
	"block":     KindBlock,
}

// KindOf classifies a raw schema type string.
func KindOf(typeName string) FieldKind {
	if k, ok := kindByName[typeName]; ok {
		return k
	}

	return KindOther
}

// IsRecognized reports whether the kind is one of the named kinds.
func (k FieldKind) IsRecognized() bool {
	return k > KindOther && k <= KindBlock
}

// ResolvedKind classifies the outcome of resolving a field path.
type ResolvedKind int

const (
	Unresolved ResolvedKind = iota
	Slug
	Reference
	Image
	File
	PortableText
	Declared // any other declared type, name carried in ResolvedType.Name
)

// ResolvedType is the result of Index.ResolveType.
type ResolvedType struct {
	Kind ResolvedKind
	Name string // declared type name for Declared
}

// String returns the canonical type name: "slug", "reference", "image",
// "file", "portableText", the declared type name, or "unresolved".
func (t ResolvedType) String() string {
	switch t.Kind {
	case Slug:
		return "slug"
	case Reference:
		return "reference"
	case Image:
		return "image"
	case File:
		return "file"
	case PortableText:
		return "portableText"
	case Declared:
		return t.Name
	default:
		return "unresolved"
	}
}

// IsResolved reports whether the path matched a schema field.
func (t ResolvedType) IsResolved() bool {
	return t.Kind != Unresolved
}

// Resolved type constructors, mainly for tests and callers that bypass an Index.
var (
	TypeUnresolved   = ResolvedType{Kind: Unresolved}
	TypeSlug         = ResolvedType{Kind: Slug}
	TypeReference    = ResolvedType{Kind: Reference}
	TypeImage        = ResolvedType{Kind: Image}
	TypeFile         = ResolvedType{Kind: File}
	TypePortableText = ResolvedType{Kind: PortableText}
)

// TypeDeclared returns the resolved type for a declared type name that has
// no special transformation.
func TypeDeclared(name string) ResolvedType {
	return ResolvedType{Kind: Declared, Name: name}
}
