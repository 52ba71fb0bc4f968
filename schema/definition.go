package schema

import "fmt"

// DefinitionKind identifies the category of a type definition.
type DefinitionKind int

const (
	KindObject DefinitionKind = iota // Plain object
	KindData                         // Immutable, entity, mapped-superclass or embeddable type
	KindEnum                         // Enumeration of constants
)

// String returns the string representation of the definition kind.
func (k DefinitionKind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindData:
		return "data"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k DefinitionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *DefinitionKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "object":
		*k = KindObject
	case "data":
		*k = KindData
	case "enum":
		*k = KindEnum
	default:
		return fmt.Errorf("unknown definition kind %q", text)
	}
	return nil
}

// TypeDefinition describes a type reached from the API surface.
//
// Enum definitions carry only EnumConstants; object and data definitions
// never carry EnumConstants.
type TypeDefinition struct {
	TypeName      TypeName        `json:"typeName"`
	Kind          DefinitionKind  `json:"kind"`
	Props         []*Property     `json:"props,omitempty"`
	SuperTypes    []*TypeRef      `json:"superTypes,omitempty"`
	EnumConstants []*EnumConstant `json:"enumConstants,omitempty"`
	APIIgnore     bool            `json:"apiIgnore,omitempty"`
	Doc           *Doc            `json:"doc,omitempty"`
}

// AddProp adds a property. A property with the same name is replaced
// in place, keeping declaration order.
func (d *TypeDefinition) AddProp(p *Property) {
	for i, existing := range d.Props {
		if existing.Name == p.Name {
			d.Props[i] = p
			return
		}
	}
	d.Props = append(d.Props, p)
}

// Prop returns the property with the given name, or nil.
func (d *TypeDefinition) Prop(name string) *Property {
	for _, p := range d.Props {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// AddSuperType appends a super type.
func (d *TypeDefinition) AddSuperType(t *TypeRef) {
	d.SuperTypes = append(d.SuperTypes, t)
}

// AddEnumConstant appends an enum constant.
func (d *TypeDefinition) AddEnumConstant(c *EnumConstant) {
	d.EnumConstants = append(d.EnumConstants, c)
}

// Property is a publicly visible property of an object or data type.
type Property struct {
	Name string   `json:"name"`
	Type *TypeRef `json:"type"`
	Doc  *Doc     `json:"doc,omitempty"`
}

// EnumConstant is a single enum member.
type EnumConstant struct {
	Name string `json:"name"`
	Doc  *Doc   `json:"doc,omitempty"`
}
