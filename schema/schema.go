package schema

import (
	"slices"
	"strings"
)

// Schema is the complete client API graph produced by one extraction run.
type Schema struct {
	// Services contains every API service in discovery order.
	Services []*Service `json:"services"`

	// Definitions contains every type definition reached from a service,
	// in the order their construction completed.
	Definitions []*TypeDefinition `json:"definitions"`
}

// AddService adds a service to the schema.
func (s *Schema) AddService(svc *Service) {
	s.Services = append(s.Services, svc)
}

// AddDefinition adds a type definition to the schema.
func (s *Schema) AddDefinition(d *TypeDefinition) {
	s.Definitions = append(s.Definitions, d)
}

// FindService looks up a service by type name. Returns nil if not found.
func (s *Schema) FindService(name TypeName) *Service {
	for _, svc := range s.Services {
		if svc.TypeName == name {
			return svc
		}
	}
	return nil
}

// FindDefinition looks up a type definition by name. Returns nil if not found.
func (s *Schema) FindDefinition(name TypeName) *TypeDefinition {
	for _, d := range s.Definitions {
		if d.TypeName == name {
			return d
		}
	}
	return nil
}

// Validate checks the schema for structural issues.
// Returns all validation errors found (not just the first).
func (s *Schema) Validate() []error {
	var errors []*ValidationError

	serviceNames := make(map[TypeName]bool)
	for _, svc := range s.Services {
		if serviceNames[svc.TypeName] {
			errors = append(errors, &ValidationError{
				Code:    "duplicate_service",
				Message: "duplicate service: " + svc.TypeName.String(),
			})
		}
		serviceNames[svc.TypeName] = true

		operationNames := make(map[string]bool)
		for _, op := range svc.Operations {
			if operationNames[op.Name] {
				errors = append(errors, &ValidationError{
					Code:    "duplicate_operation",
					Message: "duplicate operation in service " + svc.TypeName.String() + ": " + op.Name,
				})
			}
			operationNames[op.Name] = true

			if illegal := IllegalGroups(svc.Groups, op.Groups); len(illegal) > 0 {
				errors = append(errors, &ValidationError{
					Code:    "illegal_groups",
					Message: "operation " + svc.TypeName.String() + "." + op.Name + " declares groups not declared by its service: " + strings.Join(illegal, ", "),
				})
			}
			for _, p := range op.Parameters {
				errors = append(errors, validateTypeRef(p.Type, "parameter "+op.Name+"."+p.Name)...)
			}
			if op.ReturnType != nil {
				errors = append(errors, validateTypeRef(op.ReturnType, "return type of "+op.Name)...)
			}
		}
	}

	typeNames := make(map[TypeName]bool)
	for _, d := range s.Definitions {
		if typeNames[d.TypeName] {
			errors = append(errors, &ValidationError{
				Code:    "duplicate_definition",
				Message: "duplicate type definition: " + d.TypeName.String(),
			})
		}
		typeNames[d.TypeName] = true
	}

	for _, d := range s.Definitions {
		switch d.Kind {
		case KindEnum:
			if len(d.Props) > 0 || len(d.SuperTypes) > 0 {
				errors = append(errors, &ValidationError{
					Code:    "invalid_enum",
					Message: "enum " + d.TypeName.String() + " carries properties or super types",
				})
			}
		default:
			if len(d.EnumConstants) > 0 {
				errors = append(errors, &ValidationError{
					Code:    "invalid_object",
					Message: d.Kind.String() + " type " + d.TypeName.String() + " carries enum constants",
				})
			}
		}
		for _, p := range d.Props {
			errors = append(errors, validateTypeRef(p.Type, "property "+d.TypeName.String()+"."+p.Name)...)
		}
		for _, st := range d.SuperTypes {
			if !typeNames[st.TypeName] {
				errors = append(errors, &ValidationError{
					Code:    "missing_super_type",
					Message: "type " + d.TypeName.String() + " extends undefined type: " + st.TypeName.String(),
				})
			}
		}
	}

	errors = append(errors, s.detectCircularInheritance()...)

	var result []error
	for _, e := range errors {
		result = append(result, e)
	}
	return result
}

// IllegalGroups returns the groups in child that are not declared in parent.
// An empty parent allows every group.
func IllegalGroups(parent, child []string) []string {
	if len(parent) == 0 {
		return nil
	}
	var illegal []string
	for _, g := range child {
		if !slices.Contains(parent, g) && !slices.Contains(illegal, g) {
			illegal = append(illegal, g)
		}
	}
	return illegal
}

// validateTypeRef recursively checks that a reference and its arguments are named.
func validateTypeRef(r *TypeRef, context string) []*ValidationError {
	if r == nil {
		return []*ValidationError{{
			Code:    "missing_type",
			Message: context + " has no type",
		}}
	}
	var errors []*ValidationError
	if r.TypeName.IsZero() {
		errors = append(errors, &ValidationError{
			Code:    "missing_type",
			Message: context + " references an unnamed type",
		})
	}
	for _, arg := range r.Arguments {
		errors = append(errors, validateTypeRef(arg, context)...)
	}
	return errors
}

// ValidationError represents a schema validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// detectCircularInheritance checks for cycles in super type chains.
func (s *Schema) detectCircularInheritance() []*ValidationError {
	var errors []*ValidationError

	defs := make(map[TypeName]*TypeDefinition)
	for _, d := range s.Definitions {
		defs[d.TypeName] = d
	}

	// DFS cycle detection
	visited := make(map[TypeName]bool)
	inStack := make(map[TypeName]bool)

	var detectCycle func(name TypeName, path []string)
	detectCycle = func(name TypeName, path []string) {
		if inStack[name] {
			errors = append(errors, &ValidationError{
				Code:    "circular_inheritance",
				Message: "circular inheritance detected: " + strings.Join(append(path, name.String()), " -> "),
			})
			return
		}
		if visited[name] {
			return
		}

		visited[name] = true
		inStack[name] = true

		if d, ok := defs[name]; ok {
			for _, st := range d.SuperTypes {
				detectCycle(st.TypeName, append(path, name.String()))
			}
		}

		inStack[name] = false
	}

	for _, d := range s.Definitions {
		detectCycle(d.TypeName, nil)
	}

	return errors
}
